package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// UpdateProfileRequest carries a partial profile edit. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username          *string `json:"username,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

// ProfileService manages user profiles. Identity lives with an external
// provider, so profiles are provisioned lazily from validated token claims
// on the first authenticated request rather than through a signup flow.
type ProfileService interface {
	// Ensure returns the profile for the authenticated user, creating it
	// from the token claims if it does not exist yet
	Ensure(ctx context.Context, authCtx *domain.AuthContext) (*domain.Profile, error)

	// Get retrieves a profile by user id
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// GetByUsername retrieves a profile by username
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// Update edits the user's own profile
	Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error)
}
