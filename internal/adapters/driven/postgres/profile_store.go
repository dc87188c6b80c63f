package postgres

import (
	"context"
	"database/sql"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore implements driven.ProfileStore using PostgreSQL
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Save creates or updates a profile
func (s *ProfileStore) Save(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, username, email, profile_picture_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			profile_picture_url = EXCLUDED.profile_picture_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.Username,
		profile.Email,
		NullString(strPtrIfSet(profile.ProfilePictureURL)),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// Get retrieves a profile by ID
func (s *ProfileStore) Get(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, username, email, profile_picture_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	return scanProfile(s.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a profile by username
func (s *ProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `
		SELECT id, username, email, profile_picture_url, created_at, updated_at
		FROM profiles
		WHERE username = $1
	`

	return scanProfile(s.db.QueryRowContext(ctx, query, username))
}

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var pictureURL sql.NullString

	err := row.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&pictureURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile.ProfilePictureURL = pictureURL.String
	return &profile, nil
}
