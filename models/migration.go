package models

import (
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Client{},
		&Invoice{}, &InvoiceItem{},
		&Payment{}, &PaidInvoice{},
		&CageotMovement{},
		&DailyClosure{}, &ClosureLine{},
		&Truck{}, &TruckArticle{},
		&Stock{}, &StockEntry{},
		&Hangar{},
		&User{},
	)
	utils.ErrorPanic(err)
}
