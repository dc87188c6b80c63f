package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore implements driven.NoteStore using PostgreSQL
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a new NoteStore
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Save creates or updates a note
func (s *NoteStore) Save(ctx context.Context, note *domain.Note) error {
	contentJSON, err := json.Marshal(note.Content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, owner_id, title, content, tags, source_url, source_type, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			tags = EXCLUDED.tags,
			source_url = EXCLUDED.source_url,
			source_type = EXCLUDED.source_type,
			visibility = EXCLUDED.visibility,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		contentJSON,
		pq.Array(note.Tags),
		NullString(strPtrIfSet(note.SourceURL)),
		NullString(strPtrIfSet(note.SourceType)),
		string(note.Visibility),
		note.CreatedAt,
		note.UpdatedAt,
	)
	return err
}

// Get retrieves a note by ID
func (s *NoteStore) Get(ctx context.Context, id string) (*domain.Note, error) {
	query := `
		SELECT id, owner_id, title, content, tags, source_url, source_type, visibility, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	return scanNote(s.db.QueryRowContext(ctx, query, id))
}

// GetByIDs retrieves notes matching the given ids. Missing ids are skipped,
// not errors.
func (s *NoteStore) GetByIDs(ctx context.Context, ids []string) ([]*domain.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, owner_id, title, content, tags, source_url, source_type, visibility, created_at, updated_at
		FROM notes
		WHERE id = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Note)
	for rows.Next() {
		note, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		byID[note.ID] = note
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's id order
	notes := make([]*domain.Note, 0, len(byID))
	for _, id := range ids {
		if note, ok := byID[id]; ok {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// ListByOwner retrieves a user's notes with pagination, newest first
func (s *NoteStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Note, error) {
	query := `
		SELECT id, owner_id, title, content, tags, source_url, source_type, visibility, created_at, updated_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// ListIDsByOwner returns the ids of every note the user owns
func (s *NoteStore) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	query := `SELECT id FROM notes WHERE owner_id = $1`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete deletes a note
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for the shared scan path
type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row *sql.Row) (*domain.Note, error) {
	note, err := scanNoteRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return note, err
}

func scanNoteRow(sc scanner) (*domain.Note, error) {
	var note domain.Note
	var contentJSON []byte
	var tags pq.StringArray
	var sourceURL, sourceType sql.NullString
	var visibility string

	err := sc.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&contentJSON,
		&tags,
		&sourceURL,
		&sourceType,
		&visibility,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Content shape is validated here so use-sites never see malformed data
	if err := json.Unmarshal(contentJSON, &note.Content); err != nil {
		return nil, err
	}
	note.Tags = tags
	note.SourceURL = sourceURL.String
	note.SourceType = sourceType.String
	note.Visibility = domain.Visibility(visibility)

	return &note, nil
}

func strPtrIfSet(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
