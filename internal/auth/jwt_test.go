package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := svc.Issue(userID, "Alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expected expiry in the future")
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id: got %s, want %s", claims.UserID, userID)
	}
	if claims.Name != "Alice" {
		t.Errorf("name: got %q, want %q", claims.Name, "Alice")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenService("secret-a", time.Hour).Issue(uuid.New(), "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenService("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)
	token, _, err := svc.Issue(uuid.New(), "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.Parse("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
