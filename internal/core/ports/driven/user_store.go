package driven

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// ProfileStore handles user profile persistence (PostgreSQL)
type ProfileStore interface {
	// Save creates or updates a profile
	Save(ctx context.Context, profile *domain.Profile) error

	// Get retrieves a profile by ID
	Get(ctx context.Context, id string) (*domain.Profile, error)

	// GetByUsername retrieves a profile by username
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
}

// FriendshipStore handles friendship persistence (PostgreSQL)
type FriendshipStore interface {
	// Save creates or updates a friendship record
	Save(ctx context.Context, friendship *domain.Friendship) error

	// Get retrieves a friendship by ID
	Get(ctx context.Context, id string) (*domain.Friendship, error)

	// GetBetween retrieves the friendship record from userID to friendID
	GetBetween(ctx context.Context, userID, friendID string) (*domain.Friendship, error)

	// ListByUser retrieves friendships involving a user, optionally filtered
	// by status (empty status means all)
	ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error)

	// AreFriends reports whether two users have an accepted friendship in
	// either direction
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)

	// DeleteBetween deletes the friendship records in both directions
	DeleteBetween(ctx context.Context, userID, friendID string) error
}
