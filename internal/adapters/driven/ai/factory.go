package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Config identifies a text-generation backend
type Config struct {
	// Provider selects the backend: openai, grok or gemini
	Provider string

	// APIKey authenticates against the provider
	APIKey string

	// Model is the model identifier, e.g. gpt-4o-mini or gemini-2.5-flash
	Model string

	// BaseURL overrides the provider endpoint. Used for OpenAI-compatible
	// backends; defaulted for grok.
	BaseURL string

	// Timeout bounds a single generation call. Zero means no adapter-level
	// bound beyond the caller's context.
	Timeout time.Duration
}

const grokBaseURL = "https://api.x.ai/v1"

// NewGenerator creates a TextGenerator for the configured provider.
// Grok speaks the OpenAI wire protocol, so it shares that adapter with an
// overridden endpoint.
func NewGenerator(ctx context.Context, cfg Config) (driven.TextGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidInput)
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIGenerator(cfg), nil
	case "grok", "xai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = grokBaseURL
		}
		return newOpenAIGenerator(cfg), nil
	case "gemini", "google":
		return newGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, cfg.Provider)
	}
}
