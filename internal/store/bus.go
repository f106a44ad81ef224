package store

import (
	"sync"
)

// Event names broadcast after writes so other consumers reload.
// Payloads are advisory: no ordering guarantee exists between the write
// completing and the event being observed, so consumers must re-read from
// the store rather than trust the event detail as authoritative.
const (
	EventEmbeddingUpdated  = "lf:strategyEmbeddingUpdated"
	EventRetrievalUpdated  = "lf:strategyRetrievalUpdated"
	EventProcessingUpdated = "lf:processingUpdated"
	EventExtractionUpdated = "lf:strategyExtractionUpdated"
)

// Event is a fire-and-forget change notification.
type Event struct {
	Name       string         `json:"name"`
	StrategyID string         `json:"strategyId"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// Bus fans change events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event, which is acceptable
// because events only prompt a re-read from the store.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called
// to release the subscription; after cancel the channel is closed.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers e to every subscriber that has buffer space.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber is behind - drop rather than block the writer
		}
	}
}

// Notify publishes a named event for a strategy id.
func (b *Bus) Notify(name, strategyID string, detail map[string]any) {
	b.Publish(Event{Name: name, StrategyID: strategyID, Detail: detail})
}
