package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
	"github.com/notefold/notefold-core/internal/runtime"
)

// Ensure generateService implements GenerateService
var _ driving.GenerateService = (*generateService)(nil)

// generateService implements the GenerateService interface
type generateService struct {
	services *runtime.Services
	logger   *slog.Logger
}

// NewGenerateService creates a new GenerateService.
// The text generator is accessed dynamically via runtime.Services.
func NewGenerateService(services *runtime.Services, logger *slog.Logger) driving.GenerateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &generateService{services: services, logger: logger}
}

// transcriptResponse is the wire shape the generator returns for a
// one-shot transcript draft
type transcriptResponse struct {
	Title    string `json:"title"`
	Sections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"sections"`
	Tags []string `json:"tags"`
}

// metadataResponse is the wire shape the generator returns for metadata
type metadataResponse struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

var (
	transcriptSchema = generateSchema[transcriptResponse]()
	metadataSchema   = generateSchema[metadataResponse]()
)

// FromTranscript turns a complete transcript into a sectioned note draft.
// There is no prior state to fall back to, so generator failure or a
// malformed response is fatal to the call.
func (s *generateService) FromTranscript(ctx context.Context, userID string, req driving.GenerateFromTranscriptRequest) (*driving.GeneratedNote, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", domain.ErrInvalidInput)
	}

	generator := s.services.LiveGenerator()
	if generator == nil {
		return nil, domain.ErrServiceUnavailable
	}

	raw, err := generator.Generate(ctx, transcriptPrompt(req.Transcript, req.MeetingTitle), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   8192,
		JSONOnly:    true,
		SchemaName:  "GeneratedNote",
		Schema:      transcriptSchema,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	var resp transcriptResponse
	if err := decodeGenerated(raw, &resp); err != nil {
		return nil, err
	}

	draft := &driving.GeneratedNote{Title: resp.Title, Tags: resp.Tags}
	for _, sec := range resp.Sections {
		if sec.Title == "" || sec.Content == "" {
			continue
		}
		draft.Sections = append(draft.Sections, domain.Section{Title: sec.Title, Content: sec.Content})
	}
	if draft.Title == "" || len(draft.Sections) == 0 {
		return nil, domain.ErrMalformedGeneration
	}

	s.logger.Info("generated note draft from transcript",
		"user_id", userID,
		"sections", len(draft.Sections))

	return draft, nil
}

// SuggestMetadata derives a title and tags from existing note content
func (s *generateService) SuggestMetadata(ctx context.Context, userID string, req driving.SuggestMetadataRequest) (*driving.NoteMetadata, error) {
	if req.Content.IsEmpty() {
		return nil, fmt.Errorf("%w: note content is required", domain.ErrInvalidInput)
	}

	generator := s.services.LiveGenerator()
	if generator == nil {
		return nil, domain.ErrServiceUnavailable
	}

	raw, err := generator.Generate(ctx, metadataPrompt(req.Title, req.Content), driven.GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   1024,
		JSONOnly:    true,
		SchemaName:  "NoteMetadata",
		Schema:      metadataSchema,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	var resp metadataResponse
	if err := decodeGenerated(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Title == "" {
		return nil, domain.ErrMalformedGeneration
	}

	return &driving.NoteMetadata{Title: resp.Title, Tags: resp.Tags}, nil
}
