package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Visibility controls who can read a note
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Section is one titled block of text within a note.
// SourceNoteIDs is empty for authored sections and populated by the compiler.
type Section struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	SourceNoteIDs []string `json:"source_note_ids,omitempty"`
}

// NoteContent is the body of a note as stored in the jsonb content column.
// It is a tagged variant: either an ordered list of sections or a freeform
// text blob. Shape is validated here, at the storage boundary, never at
// use-sites.
type NoteContent struct {
	Sections []Section `json:"sections,omitempty"`
	Freeform string    `json:"freeform,omitempty"`
}

// IsFreeform reports whether the content is an unstructured text blob
func (c *NoteContent) IsFreeform() bool {
	return len(c.Sections) == 0 && c.Freeform != ""
}

// IsEmpty reports whether the content holds no sections and no freeform text
func (c *NoteContent) IsEmpty() bool {
	return len(c.Sections) == 0 && c.Freeform == ""
}

// UnmarshalJSON accepts the three shapes found in stored content:
// {"sections": [...]}, a bare section array, or a plain string.
func (c *NoteContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = NoteContent{}
		return nil
	}

	switch data[0] {
	case '{':
		type alias NoteContent
		var a alias
		if err := json.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		*c = NoteContent(a)
	case '[':
		var sections []Section
		if err := json.Unmarshal(data, &sections); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		*c = NoteContent{Sections: sections}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		*c = NoteContent{Freeform: s}
	default:
		return fmt.Errorf("%w: unsupported content shape", ErrInvalidInput)
	}
	return nil
}

// Validate checks structural invariants on the content
func (c *NoteContent) Validate() error {
	for i, sec := range c.Sections {
		if sec.Title == "" && sec.Content == "" {
			return fmt.Errorf("%w: section %d has no title or content", ErrInvalidInput, i)
		}
	}
	return nil
}

// Note is a user-authored note composed of ordered sections
type Note struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	Title      string      `json:"title"`
	Content    NoteContent `json:"content"`
	Tags       []string    `json:"tags"`
	SourceURL  string      `json:"source_url,omitempty"`
	SourceType string      `json:"source_type,omitempty"`
	Visibility Visibility  `json:"visibility"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Sections returns the note's section list (nil for freeform notes)
func (n *Note) Sections() []Section {
	return n.Content.Sections
}

// CompiledNote is a derived note synthesized from two or more source notes.
// SourceNoteIDs preserves compile-time input order because it defines
// citation numbering.
type CompiledNote struct {
	ID            string      `json:"id"`
	OwnerID       string      `json:"owner_id"`
	Title         string      `json:"title"`
	Content       NoteContent `json:"content"`
	Tags          []string    `json:"tags"`
	SourceNoteIDs []string    `json:"source_note_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TranscriptChunk is one unit of streaming transcript text submitted to the
// live consolidator. Chunks are ephemeral and never persisted directly.
type TranscriptChunk struct {
	Text       string `json:"text"`
	SequenceNo int    `json:"sequence_no"`
}

// UpdateAction discriminates section updates emitted by the consolidator
type UpdateAction string

const (
	ActionUpdate UpdateAction = "update"
	ActionAdd    UpdateAction = "add"
)

// SectionUpdate is one delta against an existing section list.
// For ActionUpdate, Index addresses an existing section; for ActionAdd the
// index is ignored (conventionally -1).
type SectionUpdate struct {
	Action  UpdateAction `json:"action"`
	Index   int          `json:"index"`
	Section Section      `json:"section"`
}

// LiveSeed is the initial note produced from the first transcript chunk,
// when there are no existing sections to update.
type LiveSeed struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}
