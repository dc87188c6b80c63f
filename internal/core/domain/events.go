package domain

import "time"

// EventType identifies a mutation event emitted after a successful write
type EventType string

const (
	EventProfileCreated  EventType = "profile.created"
	EventNoteCreated     EventType = "note.created"
	EventNoteUpdated     EventType = "note.updated"
	EventNoteDeleted     EventType = "note.deleted"
	EventNoteCompiled    EventType = "note.compiled"
	EventFriendRemoved   EventType = "friend.removed"
	EventSectionsCleaned EventType = "sections.cleaned"
)

// Event is an explicit record of a completed mutation. Events are emitted by
// the core after persistence succeeds and consumed by external observers;
// the core itself performs no side-channel writes.
type Event struct {
	Type       EventType         `json:"type"`
	UserID     string            `json:"user_id"`
	ResourceID string            `json:"resource_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
