package sse

import (
	"sync"

	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subscriberBuffer = 16

var (
	subscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "erp_session_subscribers",
		Help: "Open session event subscriptions.",
	})

	evictedSubscribersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "erp_session_subscribers_evicted_total",
		Help: "Subscribers closed because their event buffer was full.",
	})
)

// Hub fans session events out to every subscriber of the affected user
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan session.Event]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan session.Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a user and returns the event channel and cleanup function.
// The channel is closed by cleanup, or by the hub when the subscriber falls behind.
func (h *Hub) Subscribe(userID string) (<-chan session.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan session.Event, subscriberBuffer)

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan session.Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	subscribersActive.Inc()

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.remove(userID, ch)
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of event.UserID. A subscriber
// whose buffer is full is evicted rather than skipped, so it never misses an
// event silently.
func (h *Hub) Publish(event session.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[event.UserID] {
		select {
		case ch <- event:
		default:
			evictedSubscribersTotal.Inc()
			h.remove(event.UserID, ch)
		}
	}
}

// remove closes ch once. Callers hold h.mu.
func (h *Hub) remove(userID string, ch chan session.Event) {
	subs, ok := h.subscribers[userID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}

	delete(subs, ch)
	close(ch)
	subscribersActive.Dec()
	if len(subs) == 0 {
		delete(h.subscribers, userID)
	}
}
