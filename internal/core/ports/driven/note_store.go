package driven

import (
	"context"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// NoteStore handles note persistence (PostgreSQL)
type NoteStore interface {
	// Save creates or updates a note
	Save(ctx context.Context, note *domain.Note) error

	// Get retrieves a note by ID
	Get(ctx context.Context, id string) (*domain.Note, error)

	// GetByIDs retrieves notes by ID, skipping ids that do not resolve
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Note, error)

	// ListByOwner retrieves all notes for an owner, newest first
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Note, error)

	// ListIDsByOwner returns the ids of all notes owned by a user
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)

	// Delete deletes a note
	Delete(ctx context.Context, id string) error
}

// CompiledNoteStore handles compiled note persistence (PostgreSQL)
type CompiledNoteStore interface {
	// Save creates or updates a compiled note
	Save(ctx context.Context, note *domain.CompiledNote) error

	// Get retrieves a compiled note by ID
	Get(ctx context.Context, id string) (*domain.CompiledNote, error)

	// ListByOwner retrieves all compiled notes for an owner, newest first
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CompiledNote, error)

	// ListByOwnerSince retrieves the owner's compiled notes created at or
	// after the given time, newest first (duplicate-compile guard)
	ListByOwnerSince(ctx context.Context, ownerID string, since time.Time) ([]*domain.CompiledNote, error)

	// Delete deletes a compiled note
	Delete(ctx context.Context, id string) error
}
