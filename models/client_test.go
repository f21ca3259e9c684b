package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func TestClientStatusClassification(t *testing.T) {
	limit := decimal.NewFromInt(500000)
	cases := []struct {
		name   string
		client models.Client
		want   models.ClientStatus
	}{
		{"no debt", models.Client{DebtLimit: limit}, models.ClientStatusGood},
		{"debt within limit", models.Client{Debt: decimal.NewFromInt(100000), DebtLimit: limit}, models.ClientStatusWarning},
		{"debt at limit", models.Client{Debt: limit, DebtLimit: limit}, models.ClientStatusWarning},
		{"debt over limit", models.Client{Debt: decimal.NewFromInt(500001), DebtLimit: limit}, models.ClientStatusCritical},
		{"blocked without debt", models.Client{DebtLimit: limit, IsBlocked: utils.NewTrue()}, models.ClientStatusCritical},
	}
	for _, tc := range cases {
		if got := tc.client.Status(); got != tc.want {
			t.Fatalf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestCreateClientValidation(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	createTestClient(t, ctx, "Moussa Ba", 500000)

	// duplicate name
	_, err := models.CreateClient(ctx, &models.NewClient{Name: "Moussa Ba"})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("duplicate name: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	// phone must be valid for Senegal
	_, err = models.CreateClient(ctx, &models.NewClient{Name: "Awa Diop", Phone: "12345"})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("bad phone: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	// malformed email
	_, err = models.CreateClient(ctx, &models.NewClient{Name: "Awa Diop", Email: "not-an-email"})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("bad email: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	// negative debt limit
	_, err = models.CreateClient(ctx, &models.NewClient{Name: "Awa Diop", DebtLimit: decimal.NewFromInt(-1)})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("negative limit: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	// valid Senegalese mobile passes
	client, err := models.CreateClient(ctx, &models.NewClient{Name: "Awa Diop", Phone: "+221771234567"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.Status() != models.ClientStatusGood {
		t.Fatalf("new client status = %s, want Good", client.Status())
	}
}

func TestDeleteClientRefusesOpenPositions(t *testing.T) {
	ctx, _ := setupLedgerTest(t)

	// debtor cannot be deleted
	debtor := createTestClient(t, ctx, "Ibrahima Sarr", 1000000)
	due := time.Now().AddDate(0, 0, 5)
	createUnpaidInvoice(t, ctx, debtor.ID, "Bananes", 10, 5000, due)
	_, err := models.DeleteClient(ctx, debtor.ID)
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("debtor delete: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}

	// crate holder cannot be deleted
	holder := createTestClient(t, ctx, "Fatou Ndiaye", 1000000)
	addCageots(t, ctx, holder.ID, 3)
	_, err = models.DeleteClient(ctx, holder.ID)
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("holder delete: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}

	// a settled client goes away
	clean := createTestClient(t, ctx, "Pape Diouf", 1000000)
	if _, err := models.DeleteClient(ctx, clean.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := models.GetClient(ctx, clean.ID); !utils.IsKind(err, utils.ErrorKindNotFound) {
		t.Fatalf("deleted client still readable (%v)", err)
	}
}

func TestUpdateClientKeepsLedgerFields(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Moussa Ba", 500000)
	due := time.Now().AddDate(0, 0, 5)
	createUnpaidInvoice(t, ctx, client.ID, "Bananes", 10, 5000, due) // 50000 debt

	updated, err := models.UpdateClient(ctx, client.ID, &models.NewClient{
		Name:      "Moussa Ba et Fils",
		Address:   "Marché Tilène",
		DebtLimit: decimal.NewFromInt(800000),
	})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.Name != "Moussa Ba et Fils" {
		t.Fatalf("name = %q", updated.Name)
	}

	// debt and cageots are ledger-owned, never writable through update
	reloaded := reloadClient(t, ctx, client.ID)
	if reloaded.Debt.Cmp(decimal.NewFromInt(50000)) != 0 {
		t.Fatalf("debt = %s, want 50000", reloaded.Debt)
	}
}

func TestToggleActiveClient(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Awa Diop", 500000)

	toggled, err := models.ToggleActiveClient(ctx, client.ID, false)
	if err != nil {
		t.Fatalf("ToggleActiveClient: %v", err)
	}
	if toggled.IsActive == nil || *toggled.IsActive {
		t.Fatal("client still active after toggle")
	}
}

func TestListClientsFilterByName(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	createTestClient(t, ctx, "Moussa Ba", 500000)
	createTestClient(t, ctx, "Moustapha Gueye", 500000)
	createTestClient(t, ctx, "Awa Diop", 500000)

	name := "Mous"
	clients, err := models.ListClients(ctx, &name)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("filtered clients = %d, want 2", len(clients))
	}
}
