package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	created := testUser(t, db, "user-create@test.local")
	if created.ID == uuid.Nil {
		t.Fatal("created user has no ID")
	}
	if created.PasswordHash == "password123" {
		t.Fatal("password stored in plaintext")
	}

	byEmail, err := users.FindByEmail("user-create@test.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("FindByEmail = %+v, want user %s", byEmail, created.ID)
	}

	byID, err := users.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != "user-create@test.local" {
		t.Fatalf("FindByID = %+v", byID)
	}
}

func TestUserFindAbsentReturnsNilNil(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	u, err := users.FindByEmail("nobody@test.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Fatalf("FindByEmail = %+v, want nil", u)
	}

	u, err = users.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u != nil {
		t.Fatalf("FindByID = %+v, want nil", u)
	}
}

func TestUserCheckPassword(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	user := testUser(t, db, "user-password@test.local")

	if !users.CheckPassword(user, "password123") {
		t.Fatal("correct password rejected")
	}
	if users.CheckPassword(user, "wrong-password") {
		t.Fatal("wrong password accepted")
	}
}

func TestUserOwnedCategorySet(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	user := testUser(t, db, "user-ownedset@test.local")
	category := testCategory(t, db, "Owned Set", user.ID)

	owns, err := users.OwnsCategory(user.ID, category.ID)
	if err != nil {
		t.Fatalf("OwnsCategory: %v", err)
	}
	if owns {
		t.Fatal("category owned before AddCategory")
	}

	if err := users.AddCategory(user.ID, category.ID); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	owns, err = users.OwnsCategory(user.ID, category.ID)
	if err != nil {
		t.Fatalf("OwnsCategory: %v", err)
	}
	if !owns {
		t.Fatal("category not owned after AddCategory")
	}

	if err := users.RemoveCategory(user.ID, category.ID); err != nil {
		t.Fatalf("RemoveCategory: %v", err)
	}
	owns, err = users.OwnsCategory(user.ID, category.ID)
	if err != nil {
		t.Fatalf("OwnsCategory: %v", err)
	}
	if owns {
		t.Fatal("category still owned after RemoveCategory")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	user := testUser(t, db, "user-totp@test.local")
	if user.TOTPEnabled || user.TOTPSecret != nil {
		t.Fatalf("new user has 2FA state: %+v", user)
	}

	if err := users.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := users.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	reloaded, err := users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !reloaded.TOTPEnabled {
		t.Fatal("TOTP not enabled after EnableTOTP")
	}
	if reloaded.TOTPSecret == nil || *reloaded.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("TOTPSecret = %v", reloaded.TOTPSecret)
	}
}
