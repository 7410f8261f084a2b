// Package realtime fans out cart document changes to live subscribers.
package realtime

import (
	"sync"

	"github.com/mmynk/bakery/internal/models"
)

// subscriberBuffer is how many updates a slow subscriber may lag behind
// before updates to it are dropped.
const subscriberBuffer = 8

// Hub is an in-process publish/subscribe hub keyed by user ID.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.CartDocument
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan models.CartDocument)}
}

// Subscribe registers interest in userID's cart. The returned channel is
// closed by cancel.
func (h *Hub) Subscribe(userID string) (<-chan models.CartDocument, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan models.CartDocument, subscriberBuffer)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan models.CartDocument)
	}
	h.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers doc to every subscriber of doc.UserID without blocking.
// It returns the number of subscribers that received it.
func (h *Hub) Publish(doc models.CartDocument) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, ch := range h.subs[doc.UserID] {
		select {
		case ch <- doc:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
