package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// SectionWithCitations pairs a compiled note section with its resolved
// citations for display
type SectionWithCitations struct {
	Section   domain.Section    `json:"section"`
	Citations []domain.Citation `json:"citations"`
}

// CompileService synthesizes compiled notes from complete source notes
type CompileService interface {
	// Compile combines two or more source notes into one compiled note with
	// section-level provenance. Retried calls within the dedup window return
	// the already-created artifact instead of double-creating.
	Compile(ctx context.Context, userID string, noteIDs []string) (*domain.CompiledNote, error)

	// Get retrieves a compiled note the user owns
	Get(ctx context.Context, userID, compiledID string) (*domain.CompiledNote, error)

	// List retrieves the user's compiled notes, newest first
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.CompiledNote, error)

	// Citations resolves per-section citations for display, silently
	// dropping references to deleted source notes
	Citations(ctx context.Context, userID, compiledID string) ([]SectionWithCitations, error)

	// Delete deletes a compiled note the user owns
	Delete(ctx context.Context, userID, compiledID string) error
}
