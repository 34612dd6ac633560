package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "sila-api",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := testManager(time.Hour)

	access, refresh, err := m.GenerateTokenPair(42, "sara@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if access == refresh {
		t.Error("access and refresh tokens must differ")
	}

	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Email != "sara@example.org" {
		t.Errorf("claims wrong: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}

	refreshClaims, err := m.ValidateToken(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if refreshClaims.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %q", refreshClaims.TokenType)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := testManager(-time.Minute)
	access, _, err := m.GenerateTokenPair(1, "sara@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(access); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	access, _, err := testManager(time.Hour).GenerateTokenPair(1, "sara@example.org")
	if err != nil {
		t.Fatal(err)
	}
	other := NewJWTManager(JWTConfig{Secret: "different", Expiry: time.Hour, RefreshExpiry: time.Hour, Issuer: "sila-api"})
	if _, err := other.ValidateToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := testManager(time.Hour).ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
