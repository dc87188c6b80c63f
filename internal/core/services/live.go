package services

import (
	"context"
	"log/slog"
	"unicode"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
	"github.com/notefold/notefold-core/internal/runtime"
)

// Ensure liveNoteService implements LiveNoteService
var _ driving.LiveNoteService = (*liveNoteService)(nil)

// noiseFloor is the minimum count of meaningful characters in a chunk.
// Shorter chunks are treated as transcription noise and skipped.
const noiseFloor = 10

// liveNoteService implements the LiveNoteService interface
type liveNoteService struct {
	services *runtime.Services
	logger   *slog.Logger
}

// NewLiveNoteService creates a new LiveNoteService.
// The text generator is accessed dynamically via runtime.Services.
func NewLiveNoteService(services *runtime.Services, logger *slog.Logger) driving.LiveNoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &liveNoteService{services: services, logger: logger}
}

// sectionUpdateResponse is the wire shape the generator returns for deltas
type sectionUpdateResponse struct {
	Action  string `json:"action"`
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// seedResponse is the wire shape the generator returns for the first chunk
type seedResponse struct {
	Title    string `json:"title"`
	Sections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"sections"`
}

// Consolidate folds one transcript chunk into the existing sections.
// A chunk whose update cannot be produced (generator failure, malformed
// response) is discarded whole: the section state is returned unchanged and
// the failure is logged, never surfaced as a fatal error mid-stream.
func (s *liveNoteService) Consolidate(ctx context.Context, userID string, req driving.ConsolidateRequest) (*driving.ConsolidateResult, error) {
	if meaningfulLength(req.Chunk.Text) < noiseFloor {
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	generator := s.services.LiveGenerator()
	if generator == nil {
		return nil, domain.ErrServiceUnavailable
	}

	if len(req.Sections) == 0 {
		return s.seed(ctx, userID, generator, req)
	}

	raw, err := generator.Generate(ctx, consolidatePrompt(req.Chunk.Text, req.Sections), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONOnly:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("live consolidation failed, discarding chunk",
			"user_id", userID,
			"sequence_no", req.Chunk.SequenceNo,
			"error", err)
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	updates, err := s.parseUpdates(raw)
	if err != nil {
		s.logger.Warn("unparseable consolidation response, discarding chunk",
			"user_id", userID,
			"sequence_no", req.Chunk.SequenceNo,
			"error", err)
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	return &driving.ConsolidateResult{
		Updates:  updates,
		Sections: domain.ApplyUpdates(req.Sections, updates),
	}, nil
}

// seed handles the first chunk: the generator returns an initial
// {title, sections} document instead of update deltas.
func (s *liveNoteService) seed(ctx context.Context, userID string, generator driven.TextGenerator, req driving.ConsolidateRequest) (*driving.ConsolidateResult, error) {
	raw, err := generator.Generate(ctx, seedPrompt(req.Chunk.Text, req.MeetingTitle), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONOnly:    true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("live seed generation failed, discarding chunk",
			"user_id", userID,
			"sequence_no", req.Chunk.SequenceNo,
			"error", err)
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	var resp seedResponse
	if err := decodeGenerated(raw, &resp); err != nil {
		s.logger.Warn("unparseable seed response, discarding chunk",
			"user_id", userID,
			"sequence_no", req.Chunk.SequenceNo,
			"error", err)
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	seed := &domain.LiveSeed{Title: resp.Title}
	for _, sec := range resp.Sections {
		if sec.Title == "" || sec.Content == "" {
			continue
		}
		seed.Sections = append(seed.Sections, domain.Section{Title: sec.Title, Content: sec.Content})
	}
	if len(seed.Sections) == 0 {
		s.logger.Warn("seed response produced no usable sections, discarding chunk",
			"user_id", userID,
			"sequence_no", req.Chunk.SequenceNo)
		return &driving.ConsolidateResult{Sections: req.Sections, Skipped: true}, nil
	}

	return &driving.ConsolidateResult{Seed: seed, Sections: seed.Sections}, nil
}

// parseUpdates decodes the generator's delta array. A generator that
// answers with a {sections: [...]} object instead is tolerated by treating
// every section as an add.
func (s *liveNoteService) parseUpdates(raw string) ([]domain.SectionUpdate, error) {
	var wire []sectionUpdateResponse
	if err := decodeGenerated(raw, &wire); err == nil {
		updates := make([]domain.SectionUpdate, 0, len(wire))
		for _, u := range wire {
			action := domain.ActionAdd
			if u.Action == string(domain.ActionUpdate) {
				action = domain.ActionUpdate
			}
			updates = append(updates, domain.SectionUpdate{
				Action:  action,
				Index:   u.Index,
				Section: domain.Section{Title: u.Title, Content: u.Content},
			})
		}
		return updates, nil
	}

	var fallback seedResponse
	if err := decodeGenerated(raw, &fallback); err != nil || len(fallback.Sections) == 0 {
		return nil, domain.ErrMalformedGeneration
	}
	updates := make([]domain.SectionUpdate, 0, len(fallback.Sections))
	for _, sec := range fallback.Sections {
		updates = append(updates, domain.SectionUpdate{
			Action:  domain.ActionAdd,
			Index:   -1,
			Section: domain.Section{Title: sec.Title, Content: sec.Content},
		})
	}
	return updates, nil
}

func meaningfulLength(text string) int {
	count := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
