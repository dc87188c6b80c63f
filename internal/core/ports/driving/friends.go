package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// FriendService manages friendships between users
type FriendService interface {
	// Request sends a friend request from userID to friendID
	Request(ctx context.Context, userID, friendID string) (*domain.Friendship, error)

	// Accept accepts a pending request addressed to userID
	Accept(ctx context.Context, userID, friendshipID string) (*domain.Friendship, error)

	// Reject rejects a pending request addressed to userID
	Reject(ctx context.Context, userID, friendshipID string) error

	// Remove removes an accepted friendship in both directions and strips
	// the former friend's note ids from the remover's compiled notes
	Remove(ctx context.Context, userID, friendID string) error

	// List retrieves friendships involving the user, optionally filtered by status
	List(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error)
}
