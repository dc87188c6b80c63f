package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
	"github.com/notefold/notefold-core/internal/runtime"
)

// Ensure compileService implements CompileService
var _ driving.CompileService = (*compileService)(nil)

// dedupWindow is the trailing window within which a repeated compile of the
// same source set returns the existing artifact. Absorbs the case where a
// cancelled call's request completes server-side and the client retries.
const dedupWindow = 10 * time.Second

// compileService implements the CompileService interface
type compileService struct {
	noteStore         driven.NoteStore
	compiledNoteStore driven.CompiledNoteStore
	friendshipStore   driven.FriendshipStore
	services          *runtime.Services
	events            driven.EventSink
	now               func() time.Time
}

// NewCompileService creates a new CompileService.
// The text generator is accessed dynamically via runtime.Services.
func NewCompileService(
	noteStore driven.NoteStore,
	compiledNoteStore driven.CompiledNoteStore,
	friendshipStore driven.FriendshipStore,
	services *runtime.Services,
	events driven.EventSink,
) driving.CompileService {
	return &compileService{
		noteStore:         noteStore,
		compiledNoteStore: compiledNoteStore,
		friendshipStore:   friendshipStore,
		services:          services,
		events:            events,
		now:               time.Now,
	}
}

// compileResponse is the wire shape the generator returns for a compile
type compileResponse struct {
	Title    string `json:"title"`
	Sections []struct {
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		SourceNoteIDs []string `json:"source_note_ids"`
	} `json:"sections"`
}

var compileSchema = generateSchema[compileResponse]()

// Compile combines two or more source notes into one compiled note.
// Generator failure or a malformed response is fatal to the call: nothing
// is persisted.
func (s *compileService) Compile(ctx context.Context, userID string, noteIDs []string) (*domain.CompiledNote, error) {
	if len(noteIDs) < 2 {
		return nil, domain.ErrInsufficientSources
	}
	if hasDuplicates(noteIDs) {
		return nil, fmt.Errorf("%w: duplicate source note ids", domain.ErrInvalidInput)
	}

	notes, err := s.readableNotes(ctx, userID, noteIDs)
	if err != nil {
		return nil, err
	}
	if len(notes) < 2 {
		return nil, domain.ErrInsufficientSources
	}

	// Retried requests within the window get the first call's artifact.
	// A failing lookup is fatal: proceeding without the guard could
	// double-create on retry.
	existing, err := s.findRecentDuplicate(ctx, userID, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	generator := s.services.CompileGenerator()
	if generator == nil {
		return nil, domain.ErrServiceUnavailable
	}

	raw, err := generator.Generate(ctx, compilePrompt(notes), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   8192,
		JSONOnly:    true,
		SchemaName:  "CompiledNote",
		Schema:      compileSchema,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	var resp compileResponse
	if err := decodeGenerated(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Title == "" || len(resp.Sections) == 0 {
		return nil, domain.ErrMalformedGeneration
	}

	known := make(map[string]struct{}, len(noteIDs))
	for _, id := range noteIDs {
		known[id] = struct{}{}
	}

	sections := make([]domain.Section, 0, len(resp.Sections))
	for _, sec := range resp.Sections {
		if sec.Title == "" || sec.Content == "" {
			continue
		}
		sourceIDs := make([]string, 0, len(sec.SourceNoteIDs))
		for _, id := range sec.SourceNoteIDs {
			if _, ok := known[id]; ok {
				sourceIDs = append(sourceIDs, id)
			}
		}
		if len(sourceIDs) == 0 {
			// Conservative fallback: attribute to every input rather than
			// under-attribute
			sourceIDs = append(sourceIDs, noteIDs...)
		}
		sections = append(sections, domain.Section{
			Title:         sec.Title,
			Content:       sec.Content,
			SourceNoteIDs: sourceIDs,
		})
	}
	if len(sections) == 0 {
		return nil, domain.ErrMalformedGeneration
	}

	tagLists := make([][]string, 0, len(notes))
	for _, note := range notes {
		tagLists = append(tagLists, note.Tags)
	}

	now := s.now()
	compiled := &domain.CompiledNote{
		ID:      uuid.NewString(),
		OwnerID: userID,
		Title:   resp.Title,
		Content: domain.NoteContent{Sections: sections},
		Tags:    domain.AggregateTags(tagLists),
		// Input order, not the sorted dedup order: it defines citation numbering
		SourceNoteIDs: append([]string(nil), noteIDs...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.compiledNoteStore.Save(ctx, compiled); err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventNoteCompiled, userID, compiled.ID, map[string]string{
		"source_count": fmt.Sprintf("%d", len(noteIDs)),
	})

	return compiled, nil
}

// Get retrieves a compiled note the user owns
func (s *compileService) Get(ctx context.Context, userID, compiledID string) (*domain.CompiledNote, error) {
	compiled, err := s.compiledNoteStore.Get(ctx, compiledID)
	if err != nil {
		return nil, err
	}
	if compiled.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return compiled, nil
}

// List retrieves the user's compiled notes, newest first
func (s *compileService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.CompiledNote, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.compiledNoteStore.ListByOwner(ctx, userID, limit, offset)
}

// Citations resolves per-section citations for display. References to source
// notes that no longer exist are silently dropped.
func (s *compileService) Citations(ctx context.Context, userID, compiledID string) ([]driving.SectionWithCitations, error) {
	compiled, err := s.Get(ctx, userID, compiledID)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	sources, err := s.noteStore.GetByIDs(ctx, compiled.SourceNoteIDs)
	if err != nil {
		return nil, err
	}
	for _, note := range sources {
		titles[note.ID] = note.Title
	}

	resolve := func(id string) (string, bool) {
		title, ok := titles[id]
		return title, ok
	}

	result := make([]driving.SectionWithCitations, 0, len(compiled.Content.Sections))
	for _, sec := range compiled.Content.Sections {
		result = append(result, driving.SectionWithCitations{
			Section:   sec,
			Citations: compiled.SectionCitations(sec, resolve),
		})
	}
	return result, nil
}

// Delete deletes a compiled note the user owns
func (s *compileService) Delete(ctx context.Context, userID, compiledID string) error {
	compiled, err := s.compiledNoteStore.Get(ctx, compiledID)
	if err != nil {
		return err
	}
	if compiled.OwnerID != userID {
		return domain.ErrForbidden
	}
	return s.compiledNoteStore.Delete(ctx, compiledID)
}

// readableNotes fetches the source notes and checks the user may read each:
// own notes, public notes, or notes of an accepted friend.
func (s *compileService) readableNotes(ctx context.Context, userID string, noteIDs []string) ([]*domain.Note, error) {
	notes, err := s.noteStore.GetByIDs(ctx, noteIDs)
	if err != nil {
		return nil, err
	}

	for _, note := range notes {
		if note.OwnerID == userID || note.Visibility == domain.VisibilityPublic {
			continue
		}
		friends, err := s.friendshipStore.AreFriends(ctx, userID, note.OwnerID)
		if err != nil {
			return nil, err
		}
		if !friends {
			return nil, domain.ErrForbidden
		}
	}
	return notes, nil
}

// findRecentDuplicate returns an existing compiled note with the same
// order-independent source set created within the dedup window, if any.
func (s *compileService) findRecentDuplicate(ctx context.Context, userID string, noteIDs []string) (*domain.CompiledNote, error) {
	recent, err := s.compiledNoteStore.ListByOwnerSince(ctx, userID, s.now().Add(-dedupWindow))
	if err != nil {
		return nil, err
	}

	want := sortedCopy(noteIDs)
	for _, candidate := range recent {
		if equalStrings(sortedCopy(candidate.SourceNoteIDs), want) {
			return candidate, nil
		}
	}
	return nil, nil
}

func (s *compileService) emit(ctx context.Context, t domain.EventType, userID, resourceID string, metadata map[string]string) {
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

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
