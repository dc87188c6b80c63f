package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// stripCodeFence removes a markdown code-fence wrapper from generator output.
// Models frequently wrap JSON in ```json ... ``` despite instructions.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// decodeGenerated parses generator output into v after stripping fences.
// Parse failure is a typed error, never a crash.
func decodeGenerated(text string, v any) error {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return domain.ErrMalformedGeneration
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedGeneration, err)
	}
	return nil
}
