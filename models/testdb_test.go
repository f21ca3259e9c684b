package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

// setupLedgerTest opens a private in-memory database, migrates the schema and
// returns a context carrying the cashier identity plus the seeded hangar.
func setupLedgerTest(t *testing.T) (context.Context, *models.Hangar) {
	t.Helper()

	config.ConnectTestDatabase(t.Name())
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test Cashier")
	ctx = utils.SetUserRoleInContext(ctx, string(models.UserRoleCashier))

	hangar, err := models.CreateHangar(ctx, &models.NewHangar{
		Name:     "Hangar Central",
		Location: "Marché au poisson, Dakar",
	})
	if err != nil {
		t.Fatalf("CreateHangar: %v", err)
	}
	ctx = utils.SetHangarIdInContext(ctx, hangar.ID)

	return ctx, hangar
}

func createTestClient(t *testing.T, ctx context.Context, name string, debtLimit int64) *models.Client {
	t.Helper()
	client, err := models.CreateClient(ctx, &models.NewClient{
		Name:      name,
		DebtLimit: decimal.NewFromInt(debtLimit),
	})
	if err != nil {
		t.Fatalf("CreateClient(%s): %v", name, err)
	}
	return client
}

func createUnpaidInvoice(t *testing.T, ctx context.Context, clientId int, article string, qty int64, unitPrice int64, due time.Time) *models.Invoice {
	t.Helper()
	invoice, err := models.CreateInvoice(ctx, &models.NewInvoice{
		ClientId:    clientId,
		Type:        models.InvoiceTypeUnpaid,
		InvoiceDate: time.Now(),
		DueDate:     &due,
		Items: []models.NewInvoiceItem{
			{ArticleName: article, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(unitPrice)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice(%s): %v", article, err)
	}
	return invoice
}

func reloadClient(t *testing.T, ctx context.Context, id int) *models.Client {
	t.Helper()
	client, err := models.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient(%d): %v", id, err)
	}
	return client
}
