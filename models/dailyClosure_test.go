package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

// A day with 920000 CFA of payments closes with the computed totals frozen
// into the closure snapshot.
func TestCloseDayFreezesTotals(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Moussa Ba", 2000000)

	due := time.Now().AddDate(0, 0, 5)
	inv1 := createUnpaidInvoice(t, ctx, client.ID, "Bananes", 100, 5000, due) // 500000
	inv2 := createUnpaidInvoice(t, ctx, client.ID, "Oranges", 84, 5000, due)  // 420000

	for _, p := range []struct {
		invId  int
		amount int64
	}{{inv1.ID, 500000}, {inv2.ID, 420000}} {
		_, err := models.RecordPayment(ctx, &models.NewPayment{
			ClientId:    client.ID,
			Amount:      decimal.NewFromInt(p.amount),
			Method:      models.PaymentMethodCash,
			PaymentDate: time.Now(),
			InvoiceIds:  []int{p.invId},
		})
		if err != nil {
			t.Fatalf("RecordPayment: %v", err)
		}
	}
	addCageots(t, ctx, client.ID, 12)

	opening := decimal.NewFromInt(50000)
	closure, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate:    time.Now(),
		OpeningBalance: opening,
		Confirm:        true,
		Notes:          "RAS",
	})
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	wantPayments := decimal.NewFromInt(920000)
	if closure.TotalPayments.Cmp(wantPayments) != 0 {
		t.Fatalf("total payments = %s, want %s", closure.TotalPayments, wantPayments)
	}
	wantClosing := decimal.NewFromInt(970000)
	if closure.ClosingBalance.Cmp(wantClosing) != 0 {
		t.Fatalf("closing balance = %s, want %s", closure.ClosingBalance, wantClosing)
	}
	// 2 invoices + 2 payments
	if closure.TransactionCount != 4 {
		t.Fatalf("transaction count = %d, want 4", closure.TransactionCount)
	}
	if closure.CageotMovementCount != 1 {
		t.Fatalf("cageot movement count = %d, want 1", closure.CageotMovementCount)
	}
	if closure.Status != models.ClosureStatusClosed {
		t.Fatalf("status = %s, want Closed", closure.Status)
	}
	if closure.ClosedAt == nil {
		t.Fatal("closed_at not stamped")
	}
	// 2 invoices + 2 payments + 1 cageot movement
	if len(closure.Lines) != 5 {
		t.Fatalf("snapshot lines = %d, want 5", len(closure.Lines))
	}
}

func TestCloseDayRequiresConfirmation(t *testing.T) {
	ctx, _ := setupLedgerTest(t)

	_, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
	})
	if !utils.IsKind(err, utils.ErrorKindPrecondition) {
		t.Fatalf("error kind = %s, want precondition (%v)", utils.KindOf(err), err)
	}
	// no side effect without confirmation
	if _, err := models.FindDailyClosure(ctx, 1, 1, time.Now()); err == nil {
		t.Fatal("closure was created without confirmation")
	}
}

// The transition is terminal: closing the same tuple twice never double
// counts, it conflicts.
func TestCloseDayIsTerminal(t *testing.T) {
	ctx, _ := setupLedgerTest(t)

	_, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	_, err = models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}
}

// When a row for the tuple already exists, the unique index turns the insert
// into the same conflict the count check reports, never a collaborator error.
func TestCloseDayUniqueIndexIsLastDefense(t *testing.T) {
	ctx, hangar := setupLedgerTest(t)

	start, err := utils.ConvertToDate(time.Now(), utils.BusinessTimezone())
	if err != nil {
		t.Fatalf("ConvertToDate: %v", err)
	}
	seed := models.DailyClosure{
		CashierId:   1,
		HangarId:    hangar.ID,
		ClosureDate: start,
		Status:      models.ClosureStatusOpen,
	}
	if err := config.GetDB().WithContext(ctx).Create(&seed).Error; err != nil {
		t.Fatalf("seed closure row: %v", err)
	}

	_, err = models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}
}

// Once a day is closed, no ledger mutation can be attributed to it.
func TestClosedDayRejectsMutations(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Awa Diop", 2000000)

	due := time.Now().AddDate(0, 0, 5)
	inv := createUnpaidInvoice(t, ctx, client.ID, "Bananes", 10, 5000, due)

	_, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	// invoice on the closed day
	_, err = models.CreateInvoice(ctx, &models.NewInvoice{
		ClientId:    client.ID,
		Type:        models.InvoiceTypeUnpaid,
		InvoiceDate: time.Now(),
		DueDate:     &due,
		Items: []models.NewInvoiceItem{
			{ArticleName: "Oranges", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)},
		},
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("invoice on closed day: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}

	// payment on the closed day
	_, err = models.RecordPayment(ctx, &models.NewPayment{
		ClientId:    client.ID,
		Amount:      decimal.NewFromInt(1000),
		Method:      models.PaymentMethodCash,
		PaymentDate: time.Now(),
		InvoiceIds:  []int{inv.ID},
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("payment on closed day: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}

	// cageot movement on the closed day
	_, err = models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionAdd,
		Quantity:     2,
		Reason:       models.CageotReasonLivraison,
		MovementDate: time.Now(),
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("cageot movement on closed day: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}

	// a different day stays open
	tomorrow := time.Now().AddDate(0, 0, 1)
	_, err = models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionAdd,
		Quantity:     2,
		Reason:       models.CageotReasonLivraison,
		MovementDate: tomorrow,
	})
	if err != nil {
		t.Fatalf("movement on open day: %v", err)
	}
}

// The frozen snapshot is independent of later ledger activity on other days.
func TestClosureSnapshotImmutable(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Ibrahima Sarr", 2000000)

	due := time.Now().AddDate(0, 0, 5)
	inv := createUnpaidInvoice(t, ctx, client.ID, "Bananes", 20, 5000, due) // 100000
	_, err := models.RecordPayment(ctx, &models.NewPayment{
		ClientId:    client.ID,
		Amount:      decimal.NewFromInt(100000),
		Method:      models.PaymentMethodCash,
		PaymentDate: time.Now(),
		InvoiceIds:  []int{inv.ID},
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	closure, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	// next-day activity must not bleed into the frozen snapshot
	tomorrow := time.Now().AddDate(0, 0, 1)
	dueNext := tomorrow.AddDate(0, 0, 5)
	_, err = models.CreateInvoice(ctx, &models.NewInvoice{
		ClientId:    client.ID,
		Type:        models.InvoiceTypeUnpaid,
		InvoiceDate: tomorrow,
		DueDate:     &dueNext,
		Items: []models.NewInvoiceItem{
			{ArticleName: "Oranges", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice next day: %v", err)
	}

	reloaded, err := models.GetDailyClosure(ctx, closure.ID)
	if err != nil {
		t.Fatalf("GetDailyClosure: %v", err)
	}
	if reloaded.TotalPayments.Cmp(decimal.NewFromInt(100000)) != 0 {
		t.Fatalf("total payments = %s, want 100000", reloaded.TotalPayments)
	}
	if len(reloaded.Lines) != len(closure.Lines) {
		t.Fatalf("snapshot lines changed: %d -> %d", len(closure.Lines), len(reloaded.Lines))
	}
}

// Summaries are per (cashier, hangar): another cashier's day stays open.
func TestClosureScopedToCashier(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Fatou Ndiaye", 2000000)

	_, err := models.CloseDay(ctx, &models.NewDailyClosure{
		ClosureDate: time.Now(),
		Confirm:     true,
	})
	if err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	otherCtx := utils.SetUserIdInContext(ctx, 2)
	_, err = models.ApplyCageotMovement(otherCtx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionAdd,
		Quantity:     1,
		Reason:       models.CageotReasonLivraison,
		MovementDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("other cashier blocked by foreign closure: %v", err)
	}
}
