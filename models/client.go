package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

type Client struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone     string          `gorm:"size:20" json:"phone"`
	Email     string          `gorm:"size:100" json:"email"`
	Address   string          `gorm:"size:255" json:"address"`
	Debt      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debt"`
	DebtLimit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debt_limit"`
	Cageots   int             `gorm:"default:0" json:"cageots"`
	IsBlocked *bool           `gorm:"not null;default:false" json:"is_blocked"`
	IsActive  *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name      string          `json:"name" binding:"required"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Address   string          `json:"address"`
	DebtLimit decimal.Decimal `json:"debt_limit"`
	IsBlocked *bool           `json:"is_blocked"`
}

// Status classifies the account from its current debt. Blocked clients are
// always critical regardless of debt.
func (c Client) Status() ClientStatus {
	if c.IsBlocked != nil && *c.IsBlocked {
		return ClientStatusCritical
	}
	if c.Debt.GreaterThan(c.DebtLimit) {
		return ClientStatusCritical
	}
	if c.Debt.GreaterThan(decimal.Zero) {
		return ClientStatusWarning
	}
	return ClientStatusGood
}

func (input *NewClient) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Client](ctx, id); err != nil {
			return utils.NotFoundError("client not found")
		}
	}
	// validate unique name
	if err := utils.ValidateUnique[Client](ctx, "name", input.Name, id); err != nil {
		return err
	}
	// validate phone
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.ValidationError("invalid phone number")
		}
		if err := utils.ValidateUnique[Client](ctx, "phone", input.Phone, id); err != nil {
			return err
		}
	}
	// validate email
	if input.Email != "" {
		if !utils.IsValidEmail(input.Email) {
			return utils.ValidationError("invalid email address")
		}
	}
	if input.DebtLimit.IsNegative() {
		return utils.ValidationError("debt limit cannot be negative")
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	isBlocked := utils.NewFalse()
	if input.IsBlocked != nil {
		isBlocked = input.IsBlocked
	}
	client := Client{
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		DebtLimit: input.DebtLimit,
		IsBlocked: isBlocked,
		IsActive:  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not create client")
	}

	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}

	updates := map[string]interface{}{
		"Name":      input.Name,
		"Phone":     input.Phone,
		"Email":     input.Email,
		"Address":   input.Address,
		"DebtLimit": input.DebtLimit,
	}
	if input.IsBlocked != nil {
		updates["IsBlocked"] = input.IsBlocked
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&client).Updates(updates).Error
	if err != nil {
		return nil, utils.CollaboratorError(err, "could not update client")
	}

	return client, nil
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}
	if !client.Debt.IsZero() {
		return nil, utils.ConflictError("client still owes %s", client.Debt.String())
	}
	if client.Cageots > 0 {
		return nil, utils.ConflictError("client still holds %d cageots", client.Cageots)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&client).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not delete client")
	}
	return client, nil
}

func ToggleActiveClient(ctx context.Context, id int, isActive bool) (*Client, error) {
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&client).Update("is_active", isActive).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not update client")
	}
	return client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("client not found")
	}
	return client, nil
}

func ListClients(ctx context.Context, name *string) ([]*Client, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%").Limit(config.SearchLimit)
	}
	var results []*Client
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list clients")
	}
	return results, nil
}
