package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(42)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenManager("secret-b").Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := "test-secret"
	past := time.Now().Add(-time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(42, 10),
		IssuedAt:  jwt.NewNumericDate(past.Add(-tokenTTL)),
		ExpiresAt: jwt.NewNumericDate(past),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = NewTokenManager(secret).Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").Verify("not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "42"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = NewTokenManager("test-secret").Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if err := VerifyPassword("wrong password", hash); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
