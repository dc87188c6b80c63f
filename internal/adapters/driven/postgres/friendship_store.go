package postgres

import (
	"context"
	"database/sql"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FriendshipStore = (*FriendshipStore)(nil)

// FriendshipStore implements driven.FriendshipStore using PostgreSQL
type FriendshipStore struct {
	db *DB
}

// NewFriendshipStore creates a new FriendshipStore
func NewFriendshipStore(db *DB) *FriendshipStore {
	return &FriendshipStore{db: db}
}

// Save creates or updates a friendship record
func (s *FriendshipStore) Save(ctx context.Context, friendship *domain.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_id, friend_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			friend_id = EXCLUDED.friend_id,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		friendship.ID,
		friendship.UserID,
		friendship.FriendID,
		string(friendship.Status),
		friendship.CreatedAt,
		friendship.UpdatedAt,
	)
	return err
}

// Get retrieves a friendship by ID
func (s *FriendshipStore) Get(ctx context.Context, id string) (*domain.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at, updated_at
		FROM friendships
		WHERE id = $1
	`

	return scanFriendship(s.db.QueryRowContext(ctx, query, id))
}

// GetBetween retrieves the friendship record from userID to friendID
func (s *FriendshipStore) GetBetween(ctx context.Context, userID, friendID string) (*domain.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at, updated_at
		FROM friendships
		WHERE user_id = $1 AND friend_id = $2
	`

	return scanFriendship(s.db.QueryRowContext(ctx, query, userID, friendID))
}

// ListByUser retrieves friendships involving a user, optionally filtered by status
func (s *FriendshipStore) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]*domain.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at, updated_at
		FROM friendships
		WHERE (user_id = $1 OR friend_id = $1)
		AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friendships []*domain.Friendship
	for rows.Next() {
		var f domain.Friendship
		var st string
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &st, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.Status = domain.FriendshipStatus(st)
		friendships = append(friendships, &f)
	}
	return friendships, rows.Err()
}

// AreFriends reports whether two users have an accepted friendship in either direction
func (s *FriendshipStore) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE status = 'accepted'
			AND ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, userID, otherID).Scan(&exists)
	return exists, err
}

// DeleteBetween deletes the friendship records in both directions
func (s *FriendshipStore) DeleteBetween(ctx context.Context, userID, friendID string) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`

	_, err := s.db.ExecContext(ctx, query, userID, friendID)
	return err
}

func scanFriendship(row *sql.Row) (*domain.Friendship, error) {
	var f domain.Friendship
	var status string

	err := row.Scan(&f.ID, &f.UserID, &f.FriendID, &status, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	f.Status = domain.FriendshipStatus(status)
	return &f, nil
}
