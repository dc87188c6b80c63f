package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	adapter := NewAdapter("test-secret")

	now := time.Now()
	token, err := adapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		Email:     "user@example.com",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "user@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenExpired(t *testing.T) {
	adapter := NewAdapter("test-secret")

	token, err := adapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := adapter.ParseToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewAdapter("secret-a")
	verifier := NewAdapter("secret-b")

	token, err := issuer.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := verifier.ParseToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	adapter := NewAdapter("test-secret")

	if _, err := adapter.ParseToken("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}
