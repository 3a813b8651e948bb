package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

// Both backends carry the full pub/sub surface so callers can swap them
// freely.
var (
	_ EventPublisher  = (*ChannelBus)(nil)
	_ EventSubscriber = (*ChannelBus)(nil)
	_ EventPublisher  = (*KafkaBus)(nil)
	_ EventSubscriber = (*KafkaBus)(nil)
)

func TestChannelBus_PublishSubscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := NewChannelBus(logger)
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	sent := NewEvent(TypeAssignmentCreated, map[string]interface{}{
		"courseId": float64(1),
		"title":    "Graph Traversal",
	})
	if err := bus.Publish(ctx, sent); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-received:
		if got.ID != sent.ID {
			t.Errorf("event id = %s, want %s", got.ID, sent.ID)
		}
		if got.Type != TypeAssignmentCreated {
			t.Errorf("event type = %s, want %s", got.Type, TypeAssignmentCreated)
		}
		if got.Source != Source {
			t.Errorf("event source = %s, want %s", got.Source, Source)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(TypeGradePosted, nil)
	if e.ID == "" {
		t.Error("event id should not be empty")
	}
	if e.Source != Source {
		t.Errorf("source = %s, want %s", e.Source, Source)
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}
