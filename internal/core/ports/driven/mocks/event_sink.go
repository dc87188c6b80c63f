package mocks

import (
	"context"
	"sync"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// MockEventSink records emitted events for assertions
type MockEventSink struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewMockEventSink creates a new MockEventSink
func NewMockEventSink() *MockEventSink {
	return &MockEventSink{}
}

func (m *MockEventSink) Emit(ctx context.Context, event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of all recorded events
func (m *MockEventSink) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.Event, len(m.events))
	copy(events, m.events)
	return events
}

// OfType returns recorded events matching the given type
func (m *MockEventSink) OfType(t domain.EventType) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.Event
	for _, e := range m.events {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}
