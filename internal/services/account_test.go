package services

import (
	"errors"
	"testing"

	"github.com/DocksDocks/oauth-api/internal/models"
)

func linkAccount(t *testing.T, svc *AccountService, userID uint, provider, providerID string) *models.ProviderAccount {
	t.Helper()
	account, err := svc.Link(userID, &ProviderLogin{
		Provider:   provider,
		ProviderID: providerID,
		Email:      "linked@example.com",
	})
	if err != nil {
		t.Fatalf("Link(%s) failed: %v", provider, err)
	}
	return account
}

func TestAccountService_LinkSetsFirstPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "primary@example.com", models.RoleUser)

	first := linkAccount(t, svc, user.ID, "github", "gh-1")
	linkAccount(t, svc, user.ID, "google", "go-1")

	var fresh models.User
	db.First(&fresh, user.ID)
	if fresh.PrimaryProviderAccountID == nil || *fresh.PrimaryProviderAccountID != first.ID {
		t.Error("first linked account should become primary")
	}
}

func TestAccountService_LinkConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	alice := createTestUser(t, db, "alice@example.com", models.RoleUser)
	bob := createTestUser(t, db, "bob@example.com", models.RoleUser)

	linkAccount(t, svc, alice.ID, "github", "gh-1")

	// Same provider identity cannot belong to two users
	_, err := svc.Link(bob.ID, &ProviderLogin{Provider: "github", ProviderID: "gh-1", Email: "bob@example.com"})
	if !errors.Is(err, ErrProviderConflict) {
		t.Errorf("cross-user link = %v, expected ErrProviderConflict", err)
	}

	// One account per provider per user
	_, err = svc.Link(alice.ID, &ProviderLogin{Provider: "github", ProviderID: "gh-2", Email: "alice@example.com"})
	if !errors.Is(err, ErrProviderConflict) {
		t.Errorf("duplicate provider link = %v, expected ErrProviderConflict", err)
	}
}

func TestAccountService_UnlinkLastProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "last@example.com", models.RoleUser)

	linkAccount(t, svc, user.ID, "github", "gh-1")

	if err := svc.Unlink(user.ID, "github"); !errors.Is(err, ErrLastProvider) {
		t.Errorf("unlink last = %v, expected ErrLastProvider", err)
	}
	if err := svc.Unlink(user.ID, "google"); !errors.Is(err, ErrProviderNotLinked) {
		t.Errorf("unlink missing = %v, expected ErrProviderNotLinked", err)
	}
}

func TestAccountService_UnlinkReassignsPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "reassign@example.com", models.RoleUser)

	linkAccount(t, svc, user.ID, "github", "gh-1")
	second := linkAccount(t, svc, user.ID, "google", "go-1")

	// Removing the primary promotes the remaining account
	if err := svc.Unlink(user.ID, "github"); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}

	var fresh models.User
	db.First(&fresh, user.ID)
	if fresh.PrimaryProviderAccountID == nil || *fresh.PrimaryProviderAccountID != second.ID {
		t.Error("remaining account should become primary after unlinking the primary")
	}
}

func TestAccountService_SetPrimary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccountService(db)
	user := createTestUser(t, db, "setprimary@example.com", models.RoleUser)

	linkAccount(t, svc, user.ID, "github", "gh-1")
	second := linkAccount(t, svc, user.ID, "google", "go-1")

	if err := svc.SetPrimary(user.ID, "google"); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}

	var fresh models.User
	db.First(&fresh, user.ID)
	if fresh.PrimaryProviderAccountID == nil || *fresh.PrimaryProviderAccountID != second.ID {
		t.Error("SetPrimary should update the primary account")
	}

	if err := svc.SetPrimary(user.ID, "gitlab"); !errors.Is(err, ErrProviderNotLinked) {
		t.Errorf("SetPrimary(missing) = %v, expected ErrProviderNotLinked", err)
	}
}

func TestAuthService_LoginWithProvider(t *testing.T) {
	db := setupTestDB(t)
	tokens := NewTokenService(db, testJWTConfig())
	svc := NewAuthService(db, tokens)

	// First login creates user and account
	result, err := svc.LoginWithProvider(&ProviderLogin{
		Provider:   "github",
		ProviderID: "gh-7",
		Email:      "fresh@example.com",
		Name:       "Fresh",
	}, ClientInfo{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if result.User.Role != models.RoleUser {
		t.Errorf("new user role = %q, expected user", result.User.Role)
	}
	if result.Tokens.RefreshToken == "" {
		t.Error("login should issue tokens")
	}

	// Second login with the same identity resolves the same user
	again, err := svc.LoginWithProvider(&ProviderLogin{
		Provider:   "github",
		ProviderID: "gh-7",
		Email:      "fresh@example.com",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if again.User.ID != result.User.ID {
		t.Error("same provider identity should resolve to the same user")
	}

	// A new provider with a known email attaches to the existing user
	viaEmail, err := svc.LoginWithProvider(&ProviderLogin{
		Provider:   "google",
		ProviderID: "go-7",
		Email:      "fresh@example.com",
	}, ClientInfo{})
	if err != nil {
		t.Fatalf("email-matched login failed: %v", err)
	}
	if viaEmail.User.ID != result.User.ID {
		t.Error("matching email should attach the new provider to the existing user")
	}

	var accounts int64
	db.Model(&models.ProviderAccount{}).Where("user_id = ?", result.User.ID).Count(&accounts)
	if accounts != 2 {
		t.Errorf("linked accounts = %d, expected 2", accounts)
	}
}
