// Package realtime is an in-process change feed for chat rooms, typing and presence.
package realtime

import (
	"sync"
)

// Event is a change published on a topic.
type Event struct {
	Topic   string
	Kind    string
	Payload any
}

// Handler receives events for a topic. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

// Unsubscribe detaches a handler. Calling it more than once is a no-op.
type Unsubscribe func()

// Hub routes published events to the handlers subscribed to their topic.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string]map[uint64]Handler
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[uint64]Handler)}
}

// Subscribe registers fn for topic.
// POST: fn receives every event published on topic until the returned func is called
func (h *Hub) Subscribe(topic string, fn Handler) Unsubscribe {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uint64]Handler)
		h.topics[topic] = subs
	}
	subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.topics[topic], id)
			if len(h.topics[topic]) == 0 {
				delete(h.topics, topic)
			}
		})
	}
}

// Publish delivers an event to every current subscriber of its topic.
// Handlers are snapshotted first so they may unsubscribe while running.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.topics[e.Topic]))
	for _, fn := range h.topics[e.Topic] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Subscribers returns the number of handlers on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Topic names.
func RoomTopic(roomID string) string   { return "room:" + roomID }
func TypingTopic(roomID string) string { return "typing:" + roomID }
func PresenceTopic(userID string) string {
	return "presence:" + userID
}
