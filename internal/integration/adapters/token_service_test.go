package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/spendwise/backend/internal/domain/error"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 7*24*time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(context.Background(), userID, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "asha@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
	remaining := time.Until(claims.ExpiresAt)
	if remaining < 6*24*time.Hour || remaining > 7*24*time.Hour {
		t.Errorf("expected ~7d expiry, got %s", remaining)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}
		return s
	}
	valid := func(tokenType string, userID string, exp time.Time) CustomClaims {
		return CustomClaims{
			UserID:    userID,
			TokenType: tokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
	}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: sign(valid("access", userID.String(), future), jwt.SigningMethodHS256, []byte("other"))},
		{name: "expired", token: sign(valid("access", userID.String(), time.Now().Add(-time.Minute)), jwt.SigningMethodHS256, []byte(secret))},
		{name: "refresh type", token: sign(valid("refresh", userID.String(), future), jwt.SigningMethodHS256, []byte(secret))},
		{name: "bad user id", token: sign(valid("access", "nope", future), jwt.SigningMethodHS256, []byte(secret))},
		{name: "none algorithm", token: sign(valid("access", userID.String(), future), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)},
	}

	svc := NewTokenService(secret, time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(context.Background(), tt.token)
			if !errors.Is(err, domainerror.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenService_ExpiryFromClock(t *testing.T) {
	svc := NewTokenService("s", time.Hour).(*tokenService)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(context.Background(), uuid.New(), "a@b.co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.ValidateAccessToken(context.Background(), token); err != nil {
		t.Errorf("expected valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := svc.ValidateAccessToken(context.Background(), token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}
