package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
	"gorm.io/gorm"
)

type DailyClosure struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	CashierId           int             `gorm:"not null;uniqueIndex:idx_closure_cashier_hangar_date,priority:1" json:"cashier_id"`
	HangarId            int             `gorm:"not null;uniqueIndex:idx_closure_cashier_hangar_date,priority:2" json:"hangar_id"`
	ClosureDate         time.Time       `gorm:"not null;uniqueIndex:idx_closure_cashier_hangar_date,priority:3" json:"closure_date"`
	OpeningBalance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	TotalPayments       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_payments"`
	ClosingBalance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"closing_balance"`
	TransactionCount    int             `gorm:"default:0" json:"transaction_count"`
	CageotMovementCount int             `gorm:"default:0" json:"cageot_movement_count"`
	Status              ClosureStatus   `gorm:"size:10;not null;default:'Open'" json:"status"`
	Notes               string          `gorm:"type:text" json:"notes"`
	ClosedAt            *time.Time      `json:"closed_at"`
	Lines               []ClosureLine   `gorm:"foreignKey:ClosureId" json:"lines"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ClosureLine is a frozen copy of one ledger row of the closed day. Lines are
// written once inside the closing transaction and never touched again.
type ClosureLine struct {
	ID          int             `gorm:"primary_key" json:"id"`
	ClosureId   int             `gorm:"index;not null" json:"closure_id"`
	LineType    ClosureLineType `gorm:"size:20;not null" json:"line_type"`
	ReferenceId int             `gorm:"not null" json:"reference_id"`
	Label       string          `gorm:"size:255" json:"label"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Quantity    int             `gorm:"default:0" json:"quantity"`
	RecordedAt  time.Time       `gorm:"not null" json:"recorded_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewDailyClosure struct {
	HangarId       int             `json:"hangar_id"`
	ClosureDate    time.Time       `json:"closure_date" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Confirm        bool            `json:"confirm"`
	Notes          string          `json:"notes"`
}

type DailySummary struct {
	CashierId           int             `json:"cashier_id"`
	HangarId            int             `json:"hangar_id"`
	Date                time.Time       `json:"date"`
	OpeningBalance      decimal.Decimal `json:"opening_balance"`
	TotalPayments       decimal.Decimal `json:"total_payments"`
	ClosingBalance      decimal.Decimal `json:"closing_balance"`
	TransactionCount    int             `json:"transaction_count"`
	CageotMovementCount int             `json:"cageot_movement_count"`
	Lines               []ClosureLine   `json:"lines"`
}

// ComputeDailySummary aggregates the day's payments, invoice creations and
// cageot movements of (cashier, hangar, date). Pure read, no writes.
func ComputeDailySummary(ctx context.Context, cashierId int, hangarId int, date time.Time, openingBalance decimal.Decimal) (*DailySummary, error) {
	start, end, err := dayRange(date)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	var payments []*Payment
	if err := db.WithContext(ctx).
		Where("cashier_id = ? AND hangar_id = ? AND payment_date >= ? AND payment_date < ?", cashierId, hangarId, start, end).
		Order("created_at, id").Find(&payments).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not aggregate payments")
	}

	var invoices []*Invoice
	if err := db.WithContext(ctx).
		Where("cashier_id = ? AND hangar_id = ? AND invoice_date >= ? AND invoice_date < ?", cashierId, hangarId, start, end).
		Order("created_at, id").Find(&invoices).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not aggregate invoices")
	}

	var movements []*CageotMovement
	if err := db.WithContext(ctx).
		Where("cashier_id = ? AND hangar_id = ? AND movement_date >= ? AND movement_date < ?", cashierId, hangarId, start, end).
		Order("created_at, id").Find(&movements).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not aggregate cageot movements")
	}

	summary := DailySummary{
		CashierId:      cashierId,
		HangarId:       hangarId,
		Date:           start,
		OpeningBalance: openingBalance,
	}

	for _, p := range payments {
		summary.TotalPayments = summary.TotalPayments.Add(p.Amount)
		summary.Lines = append(summary.Lines, ClosureLine{
			LineType:    ClosureLineTypePayment,
			ReferenceId: p.ID,
			Label:       p.PaymentNumber,
			Amount:      p.Amount,
			RecordedAt:  p.CreatedAt,
		})
	}
	for _, inv := range invoices {
		summary.Lines = append(summary.Lines, ClosureLine{
			LineType:    ClosureLineTypeInvoice,
			ReferenceId: inv.ID,
			Label:       inv.InvoiceNumber,
			Amount:      inv.Amount,
			RecordedAt:  inv.CreatedAt,
		})
	}
	qtySigned := func(m *CageotMovement) int {
		if m.Direction == CageotDirectionRemove {
			return -m.Quantity
		}
		return m.Quantity
	}
	for _, m := range movements {
		summary.Lines = append(summary.Lines, ClosureLine{
			LineType:    ClosureLineTypeCageotMovement,
			ReferenceId: m.ID,
			Label:       string(m.Direction) + " " + string(m.Reason),
			Quantity:    qtySigned(m),
			RecordedAt:  m.CreatedAt,
		})
	}

	summary.TransactionCount = len(payments) + len(invoices)
	summary.CageotMovementCount = len(movements)
	summary.ClosingBalance = openingBalance.Add(summary.TotalPayments)

	return &summary, nil
}

// CloseDay freezes the operating day of the calling cashier. The transition is
// terminal: a closed tuple can never be reopened or closed twice.
func CloseDay(ctx context.Context, input *NewDailyClosure) (*DailyClosure, error) {
	cashierId, ctxHangarId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	hangarId := input.HangarId
	if hangarId <= 0 {
		hangarId = ctxHangarId
	}
	if hangarId <= 0 {
		return nil, utils.ValidationError("hangar is required")
	}

	// explicit confirmation gate, no side effect without it
	if !input.Confirm {
		return nil, utils.PreconditionError("closing the day requires confirmation")
	}

	start, _, err := dayRange(input.ClosureDate)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("closure:%d:%d:%s", cashierId, hangarId, start.Format("2006-01-02"))
	release, err := utils.ObtainLock(ctx, lockKey, "models", "CloseDay")
	if err != nil {
		return nil, err
	}
	defer release()

	// already closed is terminal
	count, err := utils.ResourceCountWhere[DailyClosure](ctx,
		"cashier_id = ? AND hangar_id = ? AND closure_date = ? AND status = ?",
		cashierId, hangarId, start, ClosureStatusClosed)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ConflictError("day %s is already closed for this cashier", start.Format("2006-01-02"))
	}

	summary, err := ComputeDailySummary(ctx, cashierId, hangarId, start, input.OpeningBalance)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	closure := DailyClosure{
		CashierId:           cashierId,
		HangarId:            hangarId,
		ClosureDate:         start,
		OpeningBalance:      summary.OpeningBalance,
		TotalPayments:       summary.TotalPayments,
		ClosingBalance:      summary.ClosingBalance,
		TransactionCount:    summary.TransactionCount,
		CageotMovementCount: summary.CageotMovementCount,
		Status:              ClosureStatusClosed,
		Notes:               input.Notes,
		ClosedAt:            &now,
		Lines:               summary.Lines,
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Create(&closure).Error
	if err != nil {
		tx.Rollback()
		// the unique index is the last line of defense against a double close
		if isDuplicateKey(err) {
			return nil, utils.ConflictError("day %s is already closed for this cashier", start.Format("2006-01-02"))
		}
		return nil, utils.CollaboratorError(err, "could not create closure")
	}

	if err = tx.Commit().Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not commit closure")
	}

	return &closure, nil
}

// isDuplicateKey matches the unique-index violation of the drivers in use
// (mysql in production, sqlite in tests).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func GetDailyClosure(ctx context.Context, id int) (*DailyClosure, error) {
	closure, err := utils.FetchModel[DailyClosure](ctx, id, "Lines")
	if err != nil {
		return nil, utils.NotFoundError("closure not found")
	}
	return closure, nil
}

func FindDailyClosure(ctx context.Context, cashierId int, hangarId int, date time.Time) (*DailyClosure, error) {
	start, _, err := dayRange(date)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var closure DailyClosure
	err = db.WithContext(ctx).Preload("Lines").
		Where("cashier_id = ? AND hangar_id = ? AND closure_date = ?", cashierId, hangarId, start).
		First(&closure).Error
	if err != nil {
		return nil, utils.NotFoundError("no closure for %s", start.Format("2006-01-02"))
	}
	return &closure, nil
}

func ListDailyClosures(ctx context.Context, hangarId *int) ([]*DailyClosure, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if hangarId != nil && *hangarId > 0 {
		dbCtx = dbCtx.Where("hangar_id = ?", *hangarId)
	}
	var results []*DailyClosure
	if err := dbCtx.Order("closure_date desc, id desc").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list closures")
	}
	return results, nil
}
