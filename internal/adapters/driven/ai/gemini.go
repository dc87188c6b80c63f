package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextGenerator = (*geminiGenerator)(nil)

// geminiGenerator implements TextGenerator against the Gemini API
type geminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func newGeminiGenerator(ctx context.Context, cfg Config) (*geminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate produces text for a prompt. One attempt per call; retry policy
// belongs to the caller.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSONOnly {
		config.ResponseMIMEType = "application/json"
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

// Model returns the model name being used
func (g *geminiGenerator) Model() string {
	return g.model
}

// Ping verifies the API key and model are usable
func (g *geminiGenerator) Ping(ctx context.Context) error {
	_, err := g.client.Models.Get(ctx, g.model, nil)
	if err != nil {
		return fmt.Errorf("gemini ping: %w", err)
	}
	return nil
}

// Close releases resources held by the generator
func (g *geminiGenerator) Close() error {
	return nil
}
