package models

import (
	"context"
	"time"

	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
	"gorm.io/gorm"
)

type CageotMovement struct {
	ID           int             `gorm:"primary_key" json:"id"`
	ClientId     int             `gorm:"index;not null" json:"client_id" binding:"required"`
	HangarId     int             `gorm:"index;not null" json:"hangar_id"`
	CashierId    int             `gorm:"index;not null" json:"cashier_id"`
	Direction    CageotDirection `gorm:"size:10;not null" json:"direction"`
	Quantity     int             `gorm:"not null" json:"quantity" binding:"required"`
	Reason       CageotReason    `gorm:"size:20;not null" json:"reason"`
	MovementDate time.Time       `gorm:"not null" json:"movement_date"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCageotMovement struct {
	ClientId        int             `json:"client_id" binding:"required"`
	Direction       CageotDirection `json:"direction" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required"`
	Reason          CageotReason    `json:"reason" binding:"required"`
	MovementDate    time.Time       `json:"movement_date" binding:"required"`
	Notes           string          `json:"notes"`
	ExpectedBalance *int            `json:"expected_balance"`
}

// PreviewCageotBalance computes the balance a movement would leave, without
// touching the store. Returns an error for a remove that exceeds the balance.
func PreviewCageotBalance(client *Client, direction CageotDirection, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, utils.ValidationError("quantity must be positive")
	}
	switch direction {
	case CageotDirectionAdd:
		return client.Cageots + quantity, nil
	case CageotDirectionRemove:
		if quantity > client.Cageots {
			return 0, utils.ValidationError("cannot remove more crates than currently held: %d available", client.Cageots)
		}
		return client.Cageots - quantity, nil
	default:
		return 0, utils.ValidationError("invalid cageot direction")
	}
}

func (input *NewCageotMovement) validate(ctx context.Context) error {
	if input.Quantity <= 0 {
		return utils.ValidationError("quantity must be positive")
	}
	if !input.Reason.ValidFor(input.Direction) {
		return utils.ValidationError("reason %q is not valid for direction %q", input.Reason, input.Direction)
	}
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return utils.NotFoundError("client not found")
	}
	return nil
}

// ApplyCageotMovement updates the client crate balance and appends the
// immutable movement row in one transaction.
func ApplyCageotMovement(ctx context.Context, input *NewCageotMovement) (*CageotMovement, error) {
	cashierId, hangarId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	// every movement must land in a closable day
	if hangarId <= 0 {
		return nil, utils.ValidationError("hangar is required")
	}

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	// day must still be open
	if err := validateClosureLock(ctx, cashierId, hangarId, input.MovementDate); err != nil {
		return nil, err
	}

	client, err := utils.FetchModel[Client](ctx, input.ClientId)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}
	// stale snapshot guard
	if input.ExpectedBalance != nil && *input.ExpectedBalance != client.Cageots {
		return nil, utils.ConflictError("client cageot balance changed: expected %d, current %d",
			*input.ExpectedBalance, client.Cageots)
	}

	if _, err := PreviewCageotBalance(client, input.Direction, input.Quantity); err != nil {
		return nil, err
	}

	delta := input.Quantity
	if input.Direction == CageotDirectionRemove {
		delta = -delta
	}

	movement := CageotMovement{
		ClientId:     input.ClientId,
		HangarId:     hangarId,
		CashierId:    cashierId,
		Direction:    input.Direction,
		Quantity:     input.Quantity,
		Reason:       input.Reason,
		MovementDate: input.MovementDate,
		Notes:        input.Notes,
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Create(&movement).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not record cageot movement")
	}

	err = tx.WithContext(ctx).Model(&Client{}).Where("id = ?", input.ClientId).
		Update("cageots", gorm.Expr("cageots + ?", delta)).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not update client cageot balance")
	}

	if err = tx.Commit().Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not commit cageot movement")
	}

	return &movement, nil
}

func ListCageotMovements(ctx context.Context, clientId *int) ([]*CageotMovement, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	var results []*CageotMovement
	if err := dbCtx.Order("movement_date, id").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list cageot movements")
	}
	return results, nil
}
