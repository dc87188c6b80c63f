package driven

import (
	"context"

	"github.com/notefold/notefold-core/internal/core/domain"
)

// EventSink receives mutation events emitted after successful writes.
// Sinks are best-effort observers: a failing sink must never fail the
// mutation that produced the event.
type EventSink interface {
	// Emit publishes one event
	Emit(ctx context.Context, event domain.Event) error
}

// NoopEventSink discards all events. Used when no event backend is configured.
type NoopEventSink struct{}

func (NoopEventSink) Emit(ctx context.Context, event domain.Event) error { return nil }
