// Package hub fans change events out to connected clients.
//
// The hub is owned by the server main and injected into handlers;
// its lifecycle is the process lifecycle, not package-global state.
package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tasklane/tasklane/pkg/api/types/events"
)

// Publisher is the producer's view of the hub.
type Publisher interface {
	// Publish sends ev to every current subscriber, best-effort.
	//
	// Publish never blocks: a subscriber whose buffer is full misses ev.
	Publish(ev events.Event)
}

// subscriberBuffer bounds how far a slow subscriber may lag before
// it starts missing events.
const subscriberBuffer = 16

type Hub struct {
	mu          sync.Mutex
	subscribers map[string]chan events.Event
	closed      bool
}

var _ Publisher = &Hub{}

func New() *Hub {
	return &Hub{
		subscribers: map[string]chan events.Event{},
	}
}

// Subscribe registers a new subscriber.
//
// The returned channel yields events published after this call; there is
// no backlog or replay. Call the returned func to unsubscribe; it closes
// the channel.
func (h *Hub) Subscribe() (<-chan events.Event, func()) {
	ch := make(chan events.Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.NewString()
	h.subscribers[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(c)
		}
	}
}

func (h *Hub) Publish(ev events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// subscriber is stalled. drop rather than block others.
		}
	}
}

// Close unsubscribes everyone. Publish after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}
