package models

import (
	"context"
	"time"

	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

type Hangar struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Location  string    `gorm:"size:255" json:"location"`
	Phone     string    `gorm:"size:20" json:"phone"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewHangar struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

func (input *NewHangar) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Hangar](ctx, id); err != nil {
			return utils.NotFoundError("hangar not found")
		}
	}
	if err := utils.ValidateUnique[Hangar](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.ValidationError("invalid phone number")
		}
	}
	return nil
}

func CreateHangar(ctx context.Context, input *NewHangar) (*Hangar, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hangar := Hangar{
		Name:     input.Name,
		Location: input.Location,
		Phone:    input.Phone,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&hangar).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not create hangar")
	}
	return &hangar, nil
}

func UpdateHangar(ctx context.Context, id int, input *NewHangar) (*Hangar, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	hangar, err := utils.FetchModel[Hangar](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("hangar not found")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&hangar).Updates(map[string]interface{}{
		"Name":     input.Name,
		"Location": input.Location,
		"Phone":    input.Phone,
	}).Error
	if err != nil {
		return nil, utils.CollaboratorError(err, "could not update hangar")
	}
	// drop the cached copy
	if err := utils.RemoveRedisItem[Hangar](id); err != nil {
		return nil, utils.CollaboratorError(err, "could not invalidate hangar cache")
	}
	return hangar, nil
}

func GetHangar(ctx context.Context, id int) (*Hangar, error) {
	if cached, err := utils.RetrieveRedis[Hangar](id); err == nil && cached != nil {
		return cached, nil
	}
	hangar, err := utils.FetchModel[Hangar](ctx, id)
	if err != nil {
		return nil, utils.NotFoundError("hangar not found")
	}
	if err := utils.StoreRedis[Hangar](hangar, id); err != nil {
		return nil, utils.CollaboratorError(err, "could not cache hangar")
	}
	return hangar, nil
}

func ListHangars(ctx context.Context) ([]*Hangar, error) {
	return utils.FetchAllModels[Hangar](ctx)
}
