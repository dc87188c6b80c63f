package services

import (
	"context"
	"strings"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	auth driven.AuthAdapter
	now  func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(auth driven.AuthAdapter) driving.AuthService {
	return &authService{auth: auth, now: time.Now}
}

// ValidateToken parses and validates an identity token and returns the
// authenticated context. Tokens come from an external identity provider;
// the core never issues credentials of its own.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.auth.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}
	if claims.ExpiresAt > 0 && s.now().Unix() >= claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{UserID: claims.UserID, Email: claims.Email}, nil
}
