package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// CreateNoteRequest carries the fields for a new note
type CreateNoteRequest struct {
	Title      string             `json:"title"`
	Content    domain.NoteContent `json:"content"`
	Tags       []string           `json:"tags"`
	SourceURL  string             `json:"source_url,omitempty"`
	SourceType string             `json:"source_type,omitempty"`
	Visibility domain.Visibility  `json:"visibility,omitempty"`
}

// UpdateNoteRequest carries a partial note edit. Nil fields are left unchanged.
type UpdateNoteRequest struct {
	Title      *string             `json:"title,omitempty"`
	Content    *domain.NoteContent `json:"content,omitempty"`
	Tags       *[]string           `json:"tags,omitempty"`
	Visibility *domain.Visibility  `json:"visibility,omitempty"`
}

// NoteService manages user notes. All operations are scoped to the acting
// user: reads extend to public notes and accepted friends' notes, writes
// never cross owners.
type NoteService interface {
	// Create stores a new note for the user
	Create(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error)

	// Get retrieves a note the user may read
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)

	// List retrieves the user's own notes, newest first
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.Note, error)

	// Update edits a note the user owns
	Update(ctx context.Context, userID, noteID string, req UpdateNoteRequest) (*domain.Note, error)

	// Delete deletes a note the user owns and strips its id from the
	// citations of the user's compiled notes
	Delete(ctx context.Context, userID, noteID string) error
}
