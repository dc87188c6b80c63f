package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// ConsolidateRequest carries one transcript chunk and the current section
// state of the live note being built
type ConsolidateRequest struct {
	Chunk        domain.TranscriptChunk `json:"chunk"`
	Sections     []domain.Section       `json:"sections"`
	MeetingTitle string                 `json:"meeting_title,omitempty"`
}

// ConsolidateResult is the outcome of folding one chunk.
// Exactly one of Updates/Seed is meaningful: Seed is set on the first chunk
// (no existing sections), Updates otherwise. Sections always holds the
// post-application state. Skipped is set when the chunk was discarded
// (noise, or an unusable generator response) and the state is unchanged.
type ConsolidateResult struct {
	Updates  []domain.SectionUpdate `json:"updates,omitempty"`
	Seed     *domain.LiveSeed       `json:"seed,omitempty"`
	Sections []domain.Section       `json:"sections"`
	Skipped  bool                   `json:"skipped,omitempty"`
}

// LiveNoteService folds a stream of transcript chunks into a bounded,
// non-fragmenting section list. Chunks are processed in submission order;
// the caller serializes chunk submission per note.
type LiveNoteService interface {
	// Consolidate folds one chunk into the given sections
	Consolidate(ctx context.Context, userID string, req ConsolidateRequest) (*ConsolidateResult, error)
}

// CleanupService normalizes freshly generated sections before persistence.
// Best-effort and fail-open: on any downstream failure the original input
// is returned unchanged so saving is never blocked.
type CleanupService interface {
	// Cleanup merges similar sections, strips fragments and removes
	// cross-section duplication
	Cleanup(ctx context.Context, userID string, sections []domain.Section) ([]domain.Section, error)
}
