package driven

import "context"

// GenerateOptions tune a single text-generation call
type GenerateOptions struct {
	// Temperature controls sampling randomness
	Temperature float64

	// MaxTokens is a hint for maximum output length
	MaxTokens int

	// JSONOnly asks the provider to constrain output to a JSON document
	// where the backend supports it; callers must still parse defensively
	JSONOnly bool

	// SchemaName and Schema request strict structured output on backends
	// that support JSON schemas. Only usable for object-shaped responses.
	SchemaName string
	Schema     map[string]any
}

// TextGenerator is the external text-generation collaborator. It is fallible
// and may return malformed output; callers strip code fences and treat parse
// failures as typed errors, never as crashes.
type TextGenerator interface {
	// Generate produces text for a prompt
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generation service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the generator
	Close() error
}
