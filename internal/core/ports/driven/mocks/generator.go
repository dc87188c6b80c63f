package mocks

import (
	"context"
	"sync"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// MockTextGenerator is a mock implementation of TextGenerator for testing.
// Responses are scripted with Queue and returned in order; when the queue is
// empty the Default response is returned.
type MockTextGenerator struct {
	mu        sync.Mutex
	responses []string
	Default   string
	failNext  bool
	calls     int
	prompts   []string
}

// NewMockTextGenerator creates a new MockTextGenerator
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{}
}

// Queue appends a scripted response
func (m *MockTextGenerator) Queue(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
}

// SetFailNext makes the next Generate call return an error
func (m *MockTextGenerator) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// Calls returns how many times Generate was invoked
func (m *MockTextGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt passed to Generate
func (m *MockTextGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)

	if m.failNext {
		m.failNext = false
		return "", domain.ErrGenerationFailed
	}

	if len(m.responses) > 0 {
		response := m.responses[0]
		m.responses = m.responses[1:]
		return response, nil
	}
	return m.Default, nil
}

func (m *MockTextGenerator) Model() string { return "mock-model" }

func (m *MockTextGenerator) Ping(ctx context.Context) error { return nil }

func (m *MockTextGenerator) Close() error { return nil }
