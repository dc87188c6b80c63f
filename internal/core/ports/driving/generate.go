package driving

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// GenerateFromTranscriptRequest carries a complete transcript to turn into
// a structured note draft in one shot
type GenerateFromTranscriptRequest struct {
	Transcript   string `json:"transcript"`
	MeetingTitle string `json:"meeting_title,omitempty"`
}

// SuggestMetadataRequest carries existing note content to derive a title
// and tags for
type SuggestMetadataRequest struct {
	Title   string             `json:"title,omitempty"`
	Content domain.NoteContent `json:"content"`
}

// GeneratedNote is a note draft produced from a transcript. It is not
// persisted; the caller reviews it and saves through the note endpoints.
type GeneratedNote struct {
	Title    string           `json:"title"`
	Sections []domain.Section `json:"sections"`
	Tags     []string         `json:"tags,omitempty"`
}

// NoteMetadata is a suggested title and tag set for existing content
type NoteMetadata struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// GenerateService produces one-shot note drafts and metadata suggestions.
// Unlike live consolidation these calls are fatal on generator failure:
// there is no prior state to fall back to.
type GenerateService interface {
	// FromTranscript turns a complete transcript into a sectioned note draft
	FromTranscript(ctx context.Context, userID string, req GenerateFromTranscriptRequest) (*GeneratedNote, error)

	// SuggestMetadata derives a title and tags from existing note content
	SuggestMetadata(ctx context.Context, userID string, req SuggestMetadataRequest) (*NoteMetadata, error)
}
