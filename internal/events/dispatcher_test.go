package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesSubscribedHandlers(t *testing.T) {
	t.Parallel()
	dispatcher := NewInMemoryDispatcher()

	var calls []string
	dispatcher.Subscribe(EventTicketOpened, func(_ context.Context, event Event) error {
		calls = append(calls, "first:"+event.ID)
		return nil
	})
	dispatcher.Subscribe(EventTicketOpened, func(_ context.Context, event Event) error {
		calls = append(calls, "second:"+event.ID)
		return nil
	})
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "wrong-type")
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{ID: "ev-1", Type: EventTicketOpened}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 handler calls, got %d: %v", len(calls), calls)
	}
	if calls[0] != "first:ev-1" || calls[1] != "second:ev-1" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()
	dispatcher := NewInMemoryDispatcher()

	reached := false
	dispatcher.Subscribe(EventDailyClaimed, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventDailyClaimed, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventDailyClaimed}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !reached {
		t.Fatal("handler after a failing one was not invoked")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	t.Parallel()
	dispatcher := NewInMemoryDispatcher()
	if err := dispatcher.Publish(context.Background(), Event{Type: EventWorkCompleted}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
