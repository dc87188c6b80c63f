package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/notefold/notefold-core/internal/core/domain"
)

func TestEventSinkPublishes(t *testing.T) {
	client := setupTestRedis(t)
	sink := NewEventSink(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, eventChannelPrefix+"note.created")
	t.Cleanup(func() { sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	event := domain.Event{
		Type:       domain.EventNoteCreated,
		UserID:     "user-1",
		ResourceID: "note-1",
		OccurredAt: time.Now().UTC(),
	}
	if err := sink.Emit(ctx, event); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got domain.Event
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if got.Type != domain.EventNoteCreated || got.ResourceID != "note-1" {
			t.Errorf("event = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
