package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
	"gorm.io/gorm"
)

// Stock is the per-hangar running aggregate of one article. It is derived
// data and can be rebuilt from the stock entries.
type Stock struct {
	ID          int             `gorm:"primary_key" json:"id"`
	HangarId    int             `gorm:"not null;uniqueIndex:idx_stock_hangar_article,priority:1" json:"hangar_id"`
	ArticleName string          `gorm:"size:100;not null;uniqueIndex:idx_stock_hangar_article,priority:2" json:"article_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	TotalValue  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_value"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockEntry is the append-only attribution of one stock increment to the
// truck it came from.
type StockEntry struct {
	ID          int             `gorm:"primary_key" json:"id"`
	HangarId    int             `gorm:"index;not null" json:"hangar_id"`
	TruckId     int             `gorm:"index;not null" json:"truck_id"`
	ArticleName string          `gorm:"size:100;not null" json:"article_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Value       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"value"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func firstOrCreateStock(tx *gorm.DB, ctx context.Context, hangarId int, articleName string) (*Stock, error) {
	stock := Stock{
		HangarId:    hangarId,
		ArticleName: articleName,
	}
	result := tx.WithContext(ctx).
		Where("hangar_id = ? AND article_name = ?", hangarId, articleName).
		FirstOrCreate(&stock)
	if result.Error != nil {
		return nil, utils.CollaboratorError(result.Error, "could not resolve stock aggregate")
	}
	return &stock, nil
}

// incrementStock bumps the (hangar, article) aggregate and appends the entry
// attributing the increment. The caller owns the transaction.
func incrementStock(tx *gorm.DB, ctx context.Context, hangarId int, truckId int, articleName string, quantity decimal.Decimal, value decimal.Decimal) error {
	stock, err := firstOrCreateStock(tx, ctx, hangarId, articleName)
	if err != nil {
		return err
	}

	err = tx.WithContext(ctx).Model(&Stock{}).Where("id = ?", stock.ID).
		Updates(map[string]interface{}{
			"quantity":    gorm.Expr("quantity + ?", quantity),
			"total_value": gorm.Expr("total_value + ?", value),
		}).Error
	if err != nil {
		return utils.CollaboratorError(err, "could not update stock aggregate")
	}

	entry := StockEntry{
		HangarId:    hangarId,
		TruckId:     truckId,
		ArticleName: articleName,
		Quantity:    quantity,
		Value:       value,
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return utils.CollaboratorError(err, "could not record stock entry")
	}
	return nil
}

func GetHangarStocks(ctx context.Context, hangarId int) ([]*Stock, error) {
	if err := utils.ValidateResourceId[Hangar](ctx, hangarId); err != nil {
		return nil, utils.NotFoundError("hangar not found")
	}
	db := config.GetDB()
	var results []*Stock
	if err := db.WithContext(ctx).Where("hangar_id = ?", hangarId).
		Order("article_name").Find(&results).Error; err != nil {
		return nil, utils.CollaboratorError(err, "could not list stocks")
	}
	return results, nil
}

func GetStockInHand(ctx context.Context, hangarId int, articleName string) (*Stock, error) {
	db := config.GetDB()
	var stock Stock
	err := db.WithContext(ctx).
		Where("hangar_id = ? AND article_name = ?", hangarId, articleName).
		First(&stock).Error
	if err != nil {
		return nil, utils.NotFoundError("no stock of %s in this hangar", articleName)
	}
	return &stock, nil
}

func ListStockEntries(ctx context.Context, truckId *int) ([]*StockEntry, error) {
	if truckId != nil && *truckId > 0 {
		return utils.FetchModelsWhere[StockEntry](ctx, "truck_id = ?", *truckId)
	}
	return utils.FetchAllModels[StockEntry](ctx)
}
