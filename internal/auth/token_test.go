package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

func testUser() *db.User {
	return &db.User{
		Model: gorm.Model{ID: 42},
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  db.RoleAdmin,
	}
}

func TestSignAndParseRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := Sign(testUser(), secret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	claims, err := Parse(token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("expected email ada@example.com, got %s", claims.Email)
	}
	if !claims.IsAdmin() {
		t.Fatal("expected admin claims")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign(testUser(), []byte("secret-a"), time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := Parse(token, []byte("secret-b")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign(testUser(), secret, -time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := Parse(token, secret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-token", []byte("test-secret")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
