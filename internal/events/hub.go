// Package events carries valentine insert events from the write path to
// live listing streams. The hub is in-memory pub/sub: delivery is
// arrival-ordered, best-effort, and scoped to this process, matching the
// realtime contract of the listing views.
package events

import (
	"sync"

	"valentina/internal/models"
)

// Subscriber receives inserted valentines on C until Unsubscribe.
type Subscriber struct {
	C chan models.Valentine
}

// Hub fans inserted valentines out to all current subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	sub := &Subscriber{C: make(chan models.Valentine, buffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.C)
	}
	h.mu.Unlock()
}

// Publish delivers an inserted valentine to every subscriber. Slow
// subscribers with a full buffer miss the event rather than block the
// write path.
func (h *Hub) Publish(v models.Valentine) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.C <- v:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
