package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

type Truck struct {
	ID             int              `gorm:"primary_key" json:"id"`
	Origin         string           `gorm:"size:100;not null" json:"origin" binding:"required"`
	Driver         string           `gorm:"size:100;not null" json:"driver" binding:"required"`
	Phone          string           `gorm:"size:20;not null" json:"phone" binding:"required"`
	HangarId       int              `gorm:"index;not null" json:"hangar_id"`
	Status         TruckStatus      `gorm:"size:20;not null;default:'Registered'" json:"status"`
	Value          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"value"`
	DeclaredValue  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"declared_value"`
	Articles       []TruckArticle   `gorm:"foreignKey:TruckId" json:"articles"`
	RegisteredById int              `gorm:"not null" json:"registered_by_id"`
	UnloadedById   *int             `json:"unloaded_by_id"`
	UnloadedAt     *time.Time       `json:"unloaded_at"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type TruckArticle struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TruckId     int             `gorm:"index;not null" json:"truck_id"`
	ArticleName string          `gorm:"size:100;not null" json:"article_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Unit        string          `gorm:"size:20" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_value"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTruck struct {
	Origin        string            `json:"origin" binding:"required"`
	Driver        string            `json:"driver" binding:"required"`
	Phone         string            `json:"phone" binding:"required"`
	HangarId      int               `json:"hangar_id"`
	DeclaredValue *decimal.Decimal  `json:"declared_value"`
	Articles      []NewTruckArticle `json:"articles" binding:"required"`
}

type NewTruckArticle struct {
	ArticleName string          `json:"article_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type UnloadItem struct {
	ArticleName string          `json:"article_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

func (input *NewTruck) validate(ctx context.Context) error {
	if input.Origin == "" || input.Driver == "" || input.Phone == "" {
		return utils.ValidationError("origin, driver and phone are required")
	}
	if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
		return utils.ValidationError("invalid phone number")
	}
	if input.HangarId <= 0 {
		return utils.ValidationError("hangar is required")
	}
	if err := utils.ValidateResourceId[Hangar](ctx, input.HangarId); err != nil {
		return utils.NotFoundError("hangar not found")
	}
	if len(input.Articles) == 0 {
		return utils.ValidationError("truck requires at least one declared article")
	}
	for _, a := range input.Articles {
		if a.ArticleName == "" {
			return utils.ValidationError("article name is required")
		}
		if !a.Quantity.IsPositive() {
			return utils.ValidationError("article quantity must be positive")
		}
		if !a.UnitPrice.IsPositive() {
			return utils.ValidationError("article unit price must be positive")
		}
	}
	return nil
}

// RegisterTruck records an arriving truck with its declared load. The truck
// value is the declared value when given, otherwise the sum of the articles.
func RegisterTruck(ctx context.Context, input *NewTruck) (*Truck, error) {
	cashierId, ctxHangarId, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if input.HangarId <= 0 {
		input.HangarId = ctxHangarId
	}

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	articles := make([]TruckArticle, 0, len(input.Articles))
	var computedValue decimal.Decimal
	for _, a := range input.Articles {
		total := a.Quantity.Mul(a.UnitPrice)
		computedValue = computedValue.Add(total)
		articles = append(articles, TruckArticle{
			ArticleName: a.ArticleName,
			Quantity:    a.Quantity,
			Unit:        a.Unit,
			UnitPrice:   a.UnitPrice,
			TotalValue:  total,
		})
	}

	if input.DeclaredValue != nil && input.DeclaredValue.IsNegative() {
		return nil, utils.ValidationError("declared value cannot be negative")
	}
	value := utils.DereferencePtr(input.DeclaredValue, computedValue)

	truck := Truck{
		Origin:         input.Origin,
		Driver:         input.Driver,
		Phone:          input.Phone,
		HangarId:       input.HangarId,
		Status:         TruckStatusRegistered,
		Value:          value,
		DeclaredValue:  input.DeclaredValue,
		Articles:       articles,
		RegisteredById: cashierId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&truck).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not register truck")
	}

	return &truck, nil
}

// UnloadTruck moves the unloaded quantities into the hangar stock aggregates
// and transitions the truck to its terminal state.
func UnloadTruck(ctx context.Context, truckId int, items []UnloadItem) (*Truck, error) {
	cashierId, _, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	truck, err := utils.FetchModel[Truck](ctx, truckId, "Articles")
	if err != nil {
		return nil, utils.NotFoundError("truck not found")
	}
	if truck.Status != TruckStatusRegistered {
		return nil, utils.ConflictError("truck %d has already been unloaded", truck.ID)
	}

	if len(items) == 0 {
		return nil, utils.ValidationError("unload requires at least one item")
	}
	declared := make(map[string]*TruckArticle, len(truck.Articles))
	for i := range truck.Articles {
		declared[truck.Articles[i].ArticleName] = &truck.Articles[i]
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, utils.ValidationError("unload quantity must be positive")
		}
		if _, ok := declared[item.ArticleName]; !ok {
			return nil, utils.ValidationError("article not declared on truck: %s", item.ArticleName)
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	for _, item := range items {
		article := declared[item.ArticleName]
		value := item.Quantity.Mul(article.UnitPrice)
		if err := incrementStock(tx, ctx, truck.HangarId, truck.ID, item.ArticleName, item.Quantity, value); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	now := time.Now()
	err = tx.WithContext(ctx).Model(&Truck{}).Where("id = ?", truck.ID).
		Updates(map[string]interface{}{
			"status":         TruckStatusUnloaded,
			"unloaded_by_id": cashierId,
			"unloaded_at":    now,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.CollaboratorError(err, "could not update truck status")
	}

	if err = tx.Commit().Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not commit unload")
	}

	truck.Status = TruckStatusUnloaded
	truck.UnloadedById = &cashierId
	truck.UnloadedAt = &now
	return truck, nil
}

func GetTruck(ctx context.Context, id int) (*Truck, error) {
	truck, err := utils.FetchModel[Truck](ctx, id, "Articles")
	if err != nil {
		return nil, utils.NotFoundError("truck not found")
	}
	return truck, nil
}

func ListTrucks(ctx context.Context, hangarId *int, status *TruckStatus) ([]*Truck, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Articles")
	if hangarId != nil && *hangarId > 0 {
		dbCtx = dbCtx.Where("hangar_id = ?", *hangarId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	var results []*Truck
	if err := dbCtx.Order("created_at desc, id desc").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list trucks")
	}
	return results, nil
}
