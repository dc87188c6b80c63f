package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
	"github.com/notefold/notefold-core/internal/runtime"
)

// Ensure cleanupService implements CleanupService
var _ driving.CleanupService = (*cleanupService)(nil)

// cleanupService implements the CleanupService interface
type cleanupService struct {
	services *runtime.Services
	events   driven.EventSink
	logger   *slog.Logger
}

// NewCleanupService creates a new CleanupService.
// The text generator is accessed dynamically via runtime.Services.
func NewCleanupService(services *runtime.Services, events driven.EventSink, logger *slog.Logger) driving.CleanupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cleanupService{services: services, events: events, logger: logger}
}

// cleanedSection is the wire shape the generator returns for a cleanup pass
type cleanedSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Cleanup runs a consolidation pass over finished sections: merges similar
// headings, trims fragments, reduces the section count. Fails open: any
// generator failure or unusable response returns the input unchanged. The
// accumulated text is never lost to a cleanup attempt.
func (s *cleanupService) Cleanup(ctx context.Context, userID string, sections []domain.Section) ([]domain.Section, error) {
	if len(sections) == 0 {
		return sections, nil
	}

	generator := s.services.LiveGenerator()
	if generator == nil {
		return sections, nil
	}

	raw, err := generator.Generate(ctx, cleanupPrompt(sections), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONOnly:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("section cleanup failed, keeping original sections",
			"user_id", userID,
			"section_count", len(sections),
			"error", err)
		return sections, nil
	}

	var wire []cleanedSection
	if err := decodeGenerated(raw, &wire); err != nil {
		s.logger.Warn("unparseable cleanup response, keeping original sections",
			"user_id", userID,
			"error", err)
		return sections, nil
	}

	cleaned := make([]domain.Section, 0, len(wire))
	for _, sec := range wire {
		if sec.Title == "" || sec.Content == "" {
			continue
		}
		cleaned = append(cleaned, domain.Section{
			Title:         sec.Title,
			Content:       sec.Content,
			SourceNoteIDs: nil,
		})
	}
	if len(cleaned) == 0 {
		s.logger.Warn("cleanup response produced no usable sections, keeping original",
			"user_id", userID)
		return sections, nil
	}

	// The generator cannot be trusted to carry attribution through a merge,
	// so every cleaned section inherits the union of the input attributions
	if union := sourceUnion(sections); len(union) > 0 {
		for i := range cleaned {
			cleaned[i].SourceNoteIDs = append([]string(nil), union...)
		}
	}

	s.emit(ctx, userID, len(sections), len(cleaned))

	return cleaned, nil
}

func (s *cleanupService) emit(ctx context.Context, userID string, before, after int) {
	if s.events == nil {
		return
	}
	_ = s.events.Emit(ctx, domain.Event{
		Type:   domain.EventSectionsCleaned,
		UserID: userID,
		Metadata: map[string]string{
			"sections_before": strconv.Itoa(before),
			"sections_after":  strconv.Itoa(after),
		},
		OccurredAt: time.Now(),
	})
}

// sourceUnion collects the distinct source note ids across sections,
// preserving first-seen order
func sourceUnion(sections []domain.Section) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, sec := range sections {
		for _, id := range sec.SourceNoteIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union
}
