package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextGenerator = (*openAIGenerator)(nil)

// openAIGenerator implements TextGenerator against the OpenAI responses API.
// Also serves any OpenAI-compatible backend via a custom base URL.
type openAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func newOpenAIGenerator(cfg Config) *openAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &openAIGenerator{client: &client, model: cfg.Model, timeout: cfg.Timeout}
}

// Generate produces text for a prompt. One attempt per call; retry policy
// belongs to the caller.
func (g *openAIGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:       g.model,
		Temperature: openai.Float(opts.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   opts.SchemaName,
					Schema: opts.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return resp.OutputText(), nil
}

// Model returns the model name being used
func (g *openAIGenerator) Model() string {
	return g.model
}

// Ping verifies the API key and model are usable
func (g *openAIGenerator) Ping(ctx context.Context) error {
	_, err := g.client.Models.Get(ctx, g.model)
	if err != nil {
		return fmt.Errorf("openai ping: %w", err)
	}
	return nil
}

// Close releases resources held by the generator
func (g *openAIGenerator) Close() error {
	return nil
}
