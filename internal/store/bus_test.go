package store

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Notify(EventEmbeddingUpdated, "strat-1", map[string]any{"modelId": "m"})

	select {
	case e := <-ch:
		if e.Name != EventEmbeddingUpdated {
			t.Errorf("Name = %q, want %q", e.Name, EventEmbeddingUpdated)
		}
		if e.StrategyID != "strat-1" {
			t.Errorf("StrategyID = %q, want %q", e.StrategyID, "strat-1")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()

	// Buffer of 1, never drained.
	_, cancel := bus.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Notify(EventProcessingUpdated, "s", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe(1)
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}

	// Publishing after cancel must not panic.
	bus.Notify(EventRetrievalUpdated, "s", nil)
}
