package events

import (
	"log/slog"
	"sync"
	"time"
)

// LeadEvent is broadcast to admin dashboards when a lead is submitted
type LeadEvent struct {
	Kind      string    `json:"kind"` // demo_request or access_request
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hub fans lead events out to connected subscribers. Slow subscribers drop
// events rather than block the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan LeadEvent]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		subscribers: make(map[chan LeadEvent]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber and returns its channel plus a cancel func
func (h *Hub) Subscribe() (<-chan LeadEvent, func()) {
	ch := make(chan LeadEvent, 16)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking
func (h *Hub) Publish(ev LeadEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("dropping lead event for slow subscriber",
				slog.String("kind", ev.Kind),
				slog.String("id", ev.ID),
			)
		}
	}
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
