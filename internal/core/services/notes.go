package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// Ensure noteService implements NoteService
var _ driving.NoteService = (*noteService)(nil)

// noteService implements the NoteService interface
type noteService struct {
	noteStore         driven.NoteStore
	compiledNoteStore driven.CompiledNoteStore
	events            driven.EventSink
	logger            *slog.Logger
	now               func() time.Time
}

// NewNoteService creates a new NoteService
func NewNoteService(
	noteStore driven.NoteStore,
	compiledNoteStore driven.CompiledNoteStore,
	events driven.EventSink,
	logger *slog.Logger,
) driving.NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &noteService{
		noteStore:         noteStore,
		compiledNoteStore: compiledNoteStore,
		events:            events,
		logger:            logger,
		now:               time.Now,
	}
}

// Create creates a new note for the user
func (s *noteService) Create(ctx context.Context, userID string, req driving.CreateNoteRequest) (*domain.Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if err := req.Content.Validate(); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if visibility != domain.VisibilityPrivate && visibility != domain.VisibilityPublic {
		return nil, fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidInput, visibility)
	}

	now := s.now()
	note := &domain.Note{
		ID:         uuid.NewString(),
		OwnerID:    userID,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		SourceURL:  req.SourceURL,
		SourceType: req.SourceType,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.noteStore.Save(ctx, note); err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventNoteCreated, userID, note.ID, nil)
	return note, nil
}

// Get retrieves a note. Owners always see their notes; others only see
// public ones.
func (s *noteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.noteStore.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != userID && note.Visibility != domain.VisibilityPublic {
		return nil, domain.ErrForbidden
	}
	return note, nil
}

// List retrieves the user's notes, newest first
func (s *noteService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.noteStore.ListByOwner(ctx, userID, limit, offset)
}

// Update applies a partial update to a note the user owns
func (s *noteService) Update(ctx context.Context, userID, noteID string, req driving.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.noteStore.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != userID {
		return nil, domain.ErrForbidden
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		note.Title = *req.Title
	}
	if req.Content != nil {
		if err := req.Content.Validate(); err != nil {
			return nil, err
		}
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}
	if req.Visibility != nil {
		if *req.Visibility != domain.VisibilityPrivate && *req.Visibility != domain.VisibilityPublic {
			return nil, fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidInput, *req.Visibility)
		}
		note.Visibility = *req.Visibility
	}
	note.UpdatedAt = s.now()

	if err := s.noteStore.Save(ctx, note); err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventNoteUpdated, userID, note.ID, nil)
	return note, nil
}

// Delete removes a note the user owns and strips its citations from every
// compiled note that references it. The compiled notes themselves survive.
func (s *noteService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.noteStore.Get(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != userID {
		return domain.ErrForbidden
	}

	if err := s.noteStore.Delete(ctx, noteID); err != nil {
		return err
	}

	if err := s.stripCitations(ctx, userID, noteID); err != nil {
		// The note is gone; a failed citation sweep leaves stale references
		// that the citation resolver already tolerates
		s.logger.Warn("citation sweep failed after note deletion",
			"user_id", userID,
			"note_id", noteID,
			"error", err)
	}

	s.emit(ctx, domain.EventNoteDeleted, userID, noteID, nil)
	return nil
}

// stripCitations removes every reference to the deleted note from the
// owner's compiled notes
func (s *noteService) stripCitations(ctx context.Context, userID, noteID string) error {
	const pageSize = 100
	for offset := 0; ; offset += pageSize {
		compiled, err := s.compiledNoteStore.ListByOwner(ctx, userID, pageSize, offset)
		if err != nil {
			return err
		}
		for _, c := range compiled {
			if !c.RemoveSource(noteID) {
				continue
			}
			c.UpdatedAt = s.now()
			if err := s.compiledNoteStore.Save(ctx, c); err != nil {
				return err
			}
		}
		if len(compiled) < pageSize {
			return nil
		}
	}
}

func (s *noteService) emit(ctx context.Context, t domain.EventType, userID, resourceID string, metadata map[string]string) {
	if s.events == nil {
		return
	}
	_ = s.events.Emit(ctx, domain.Event{
		Type:       t,
		UserID:     userID,
		ResourceID: resourceID,
		Metadata:   metadata,
		OccurredAt: s.now(),
	})
}
