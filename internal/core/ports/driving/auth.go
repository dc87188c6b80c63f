package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// AuthService is the identity collaborator surface: it validates tokens
// issued by the external identity provider and yields the acting user.
type AuthService interface {
	// ValidateToken validates a bearer token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
