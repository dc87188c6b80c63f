package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/notefold/notefold-core/internal/core/domain"
	"github.com/notefold/notefold-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EventSink = (*EventSink)(nil)

const eventChannelPrefix = "notefold:events:"

// EventSink publishes mutation events on Redis pub/sub, one channel per
// event type. Delivery is fire-and-forget; a subscriber that misses an
// event misses it.
type EventSink struct {
	client *redis.Client
}

// NewEventSink creates a new Redis-backed event sink
func NewEventSink(client *redis.Client) *EventSink {
	return &EventSink{client: client}
}

// Emit publishes the event to its type channel
func (s *EventSink) Emit(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	channel := eventChannelPrefix + string(event.Type)
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy
func (s *EventSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
