package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in clear")
	}
	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestHashPasswordMinLengthBoundary(t *testing.T) {
	if _, err := HashPassword("eight888"); err != nil {
		t.Errorf("8 characters must be accepted, got %v", err)
	}
}
