package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CompiledNoteStore = (*CompiledNoteStore)(nil)

// CompiledNoteStore implements driven.CompiledNoteStore using PostgreSQL
type CompiledNoteStore struct {
	db *DB
}

// NewCompiledNoteStore creates a new CompiledNoteStore
func NewCompiledNoteStore(db *DB) *CompiledNoteStore {
	return &CompiledNoteStore{db: db}
}

// Save creates or updates a compiled note
func (s *CompiledNoteStore) Save(ctx context.Context, note *domain.CompiledNote) error {
	contentJSON, err := json.Marshal(note.Content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO compiled_notes (id, owner_id, title, content, tags, source_note_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			tags = EXCLUDED.tags,
			source_note_ids = EXCLUDED.source_note_ids,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		contentJSON,
		pq.Array(note.Tags),
		pq.Array(note.SourceNoteIDs),
		note.CreatedAt,
		note.UpdatedAt,
	)
	return err
}

// Get retrieves a compiled note by ID
func (s *CompiledNoteStore) Get(ctx context.Context, id string) (*domain.CompiledNote, error) {
	query := `
		SELECT id, owner_id, title, content, tags, source_note_ids, created_at, updated_at
		FROM compiled_notes
		WHERE id = $1
	`

	note, err := scanCompiledNote(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return note, err
}

// ListByOwner retrieves a user's compiled notes with pagination, newest first
func (s *CompiledNoteStore) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CompiledNote, error) {
	query := `
		SELECT id, owner_id, title, content, tags, source_note_ids, created_at, updated_at
		FROM compiled_notes
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompiledNotes(rows)
}

// ListByOwnerSince retrieves the user's compiled notes created at or after
// the given instant. Feeds the compile dedup window, so it never paginates.
func (s *CompiledNoteStore) ListByOwnerSince(ctx context.Context, ownerID string, since time.Time) ([]*domain.CompiledNote, error) {
	query := `
		SELECT id, owner_id, title, content, tags, source_note_ids, created_at, updated_at
		FROM compiled_notes
		WHERE owner_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompiledNotes(rows)
}

// Delete deletes a compiled note
func (s *CompiledNoteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM compiled_notes WHERE id = $1`, id)
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

func collectCompiledNotes(rows *sql.Rows) ([]*domain.CompiledNote, error) {
	var notes []*domain.CompiledNote
	for rows.Next() {
		note, err := scanCompiledNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func scanCompiledNote(sc scanner) (*domain.CompiledNote, error) {
	var note domain.CompiledNote
	var contentJSON []byte
	var tags, sourceNoteIDs pq.StringArray

	err := sc.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&contentJSON,
		&tags,
		&sourceNoteIDs,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contentJSON, &note.Content); err != nil {
		return nil, err
	}
	note.Tags = tags
	note.SourceNoteIDs = sourceNoteIDs

	return &note, nil
}
