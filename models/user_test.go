package models_test

import (
	"testing"

	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

func TestLoginVerifiesPassword(t *testing.T) {
	ctx, hangar := setupLedgerTest(t)

	_, err := models.CreateUser(ctx, &models.NewUser{
		Username: "caissier1",
		Name:     "Cheikh Fall",
		Password: "secret123",
		Role:     models.UserRoleCashier,
		HangarId: hangar.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	info, err := models.Login(ctx, "caissier1", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.Token == "" {
		t.Fatal("no token issued")
	}
	if info.HangarId != hangar.ID {
		t.Fatalf("hangar = %d, want %d", info.HangarId, hangar.ID)
	}

	_, err = models.Login(ctx, "caissier1", "wrong-password")
	if !utils.IsKind(err, utils.ErrorKindValidation) {
		t.Fatalf("wrong password: error kind = %s, want validation (%v)", utils.KindOf(err), err)
	}
}

// A row carrying a corrupted password hash can never authenticate, whatever
// password is supplied.
func TestLoginRejectsMalformedHash(t *testing.T) {
	ctx, _ := setupLedgerTest(t)

	user := models.User{
		Username: "corrompu",
		Name:     "Compte Corrompu",
		Password: "not-a-bcrypt-hash",
		Role:     models.UserRoleCashier,
		IsActive: utils.NewTrue(),
	}
	if err := config.GetDB().WithContext(ctx).Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := models.Login(ctx, "corrompu", "not-a-bcrypt-hash"); err == nil {
		t.Fatal("login succeeded against a malformed hash")
	}
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	ctx, hangar := setupLedgerTest(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "caissier2",
		Name:     "Awa Diop",
		Password: "secret123",
		Role:     models.UserRoleCashier,
		HangarId: hangar.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := models.ToggleActiveUser(ctx, user.ID, false); err != nil {
		t.Fatalf("ToggleActiveUser: %v", err)
	}

	_, err = models.Login(ctx, "caissier2", "secret123")
	if !utils.IsKind(err, utils.ErrorKindConflict) {
		t.Fatalf("disabled user: error kind = %s, want conflict (%v)", utils.KindOf(err), err)
	}
}
