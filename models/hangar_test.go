package models_test

import (
	"testing"

	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

// An update must be visible through the cached lookup path right away.
func TestUpdateHangarRefreshesLookup(t *testing.T) {
	ctx, hangar := setupLedgerTest(t)

	// warm the lookup
	if _, err := models.GetHangar(ctx, hangar.ID); err != nil {
		t.Fatalf("GetHangar: %v", err)
	}

	_, err := models.UpdateHangar(ctx, hangar.ID, &models.NewHangar{
		Name:     "Hangar Port",
		Location: "Môle 10, Dakar",
	})
	if err != nil {
		t.Fatalf("UpdateHangar: %v", err)
	}

	reloaded, err := models.GetHangar(ctx, hangar.ID)
	if err != nil {
		t.Fatalf("GetHangar after update: %v", err)
	}
	if reloaded.Name != "Hangar Port" {
		t.Fatalf("name = %q, want %q (stale lookup)", reloaded.Name, "Hangar Port")
	}
}

func TestCreateHangarValidation(t *testing.T) {
	ctx, _ := setupLedgerTest(t)

	// duplicate name
	_, err := models.CreateHangar(ctx, &models.NewHangar{Name: "Hangar Central"})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("duplicate name: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}

	// phone must be valid for Senegal
	_, err = models.CreateHangar(ctx, &models.NewHangar{Name: "Hangar Thiès", Phone: "12"})
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("bad phone: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}
}
