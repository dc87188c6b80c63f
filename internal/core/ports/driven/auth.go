package driven

import "github.com/notefold/notefold-core/internal/core/domain"

// AuthAdapter validates tokens issued by the external identity provider.
// Password handling and session lifecycle live outside this service.
type AuthAdapter interface {
	// GenerateToken creates a signed token from claims (used by tooling and tests)
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token and extracts claims
	ParseToken(tokenString string) (*domain.TokenClaims, error)
}
