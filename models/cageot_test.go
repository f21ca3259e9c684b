package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func addCageots(t *testing.T, ctx context.Context, clientId int, qty int) {
	t.Helper()
	_, err := models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     clientId,
		Direction:    models.CageotDirectionAdd,
		Quantity:     qty,
		Reason:       models.CageotReasonLivraison,
		MovementDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("ApplyCageotMovement(add %d): %v", qty, err)
	}
}

// A client holding 22 crates returns 5: balance drops to 17 and an immutable
// movement row is appended.
func TestApplyCageotMovementRemove(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Moussa Ba", 500000)
	addCageots(t, ctx, client.ID, 22)

	movement, err := models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionRemove,
		Quantity:     5,
		Reason:       models.CageotReasonCollecte,
		MovementDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("ApplyCageotMovement(remove 5): %v", err)
	}
	if movement.ID == 0 {
		t.Fatal("movement row not persisted")
	}

	client = reloadClient(t, ctx, client.ID)
	if client.Cageots != 17 {
		t.Fatalf("cageot balance = %d, want 17", client.Cageots)
	}

	movements, err := models.ListCageotMovements(ctx, &client.ID)
	if err != nil {
		t.Fatalf("ListCageotMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movement count = %d, want 2", len(movements))
	}
}

// Removing more crates than held is rejected and names the available balance.
func TestApplyCageotMovementCannotGoNegative(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Awa Diop", 500000)
	addCageots(t, ctx, client.ID, 22)

	_, err := models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionRemove,
		Quantity:     30,
		Reason:       models.CageotReasonCollecte,
		MovementDate: time.Now(),
	})
	if err == nil {
		t.Fatal("expected remove beyond balance to be rejected")
	}
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	client = reloadClient(t, ctx, client.ID)
	if client.Cageots != 22 {
		t.Fatalf("cageot balance = %d, want 22 (untouched)", client.Cageots)
	}
}

func TestApplyCageotMovementReasonPerDirection(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Ibrahima Sarr", 500000)

	// "vente" is a remove reason, not valid on add
	_, err := models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionAdd,
		Quantity:     3,
		Reason:       models.CageotReasonVente,
		MovementDate: time.Now(),
	})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}
}

func TestPreviewCageotBalance(t *testing.T) {
	client := &models.Client{Cageots: 10}

	balance, err := models.PreviewCageotBalance(client, models.CageotDirectionAdd, 5)
	if err != nil || balance != 15 {
		t.Fatalf("add preview = %d, %v; want 15, nil", balance, err)
	}
	balance, err = models.PreviewCageotBalance(client, models.CageotDirectionRemove, 10)
	if err != nil || balance != 0 {
		t.Fatalf("remove preview = %d, %v; want 0, nil", balance, err)
	}
	_, err = models.PreviewCageotBalance(client, models.CageotDirectionRemove, 11)
	if err == nil {
		t.Fatal("expected preview beyond balance to fail")
	}
	// preview never mutates
	if client.Cageots != 10 {
		t.Fatalf("preview mutated balance to %d", client.Cageots)
	}
}

func TestApplyCageotMovementRequiresHangar(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Cheikh Fall", 500000)

	bare := utils.SetUserIdInContext(context.Background(), 1)
	_, err := models.ApplyCageotMovement(bare, &models.NewCageotMovement{
		ClientId:     client.ID,
		Direction:    models.CageotDirectionAdd,
		Quantity:     4,
		Reason:       models.CageotReasonLivraison,
		MovementDate: time.Now(),
	})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	client = reloadClient(t, ctx, client.ID)
	if client.Cageots != 0 {
		t.Fatalf("cageot balance = %d, want 0", client.Cageots)
	}
}

func TestApplyCageotMovementExpectedBalanceGuard(t *testing.T) {
	ctx, _ := setupLedgerTest(t)
	client := createTestClient(t, ctx, "Fatou Ndiaye", 500000)
	addCageots(t, ctx, client.ID, 8)

	stale := 5
	_, err := models.ApplyCageotMovement(ctx, &models.NewCageotMovement{
		ClientId:        client.ID,
		Direction:       models.CageotDirectionRemove,
		Quantity:        2,
		Reason:          models.CageotReasonCollecte,
		MovementDate:    time.Now(),
		ExpectedBalance: &stale,
	})
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}
}
