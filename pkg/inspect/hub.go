package inspect

import (
	"sync"
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
)

const defaultSubscriberBuffer = 100

// Message is the JSON form of a reactive.Event sent to websocket clients.
type Message struct {
	Type       string             `json:"type"`
	Kind       reactive.EventKind `json:"kind"`
	Node       reactive.NodeID    `json:"node"`
	NodeKind   string             `json:"node_kind"`
	Name       string             `json:"name,omitempty"`
	Start      time.Time          `json:"start"`
	DurationUS int64              `json:"duration_us,omitempty"`
	Changed    bool               `json:"changed,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func newMessage(ev reactive.Event) Message {
	msg := Message{
		Type:       "event",
		Kind:       ev.Kind,
		Node:       ev.Node,
		NodeKind:   ev.NodeKind.String(),
		Name:       ev.Name,
		Start:      ev.Start.UTC(),
		DurationUS: ev.Duration.Microseconds(),
		Changed:    ev.Changed,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}

// Hub fans messages out to subscribers. Each subscriber has a bounded
// buffer; messages for a full subscriber are dropped.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan Message
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint64]chan Message),
	}
}

// Subscribe registers a subscriber and returns its channel and the
// function that unsubscribes it. The channel is closed on unsubscribe or
// when the hub closes.
func (h *Hub) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		ch := make(chan Message)
		close(ch)
		return ch, func() {}
	}
	h.nextID++
	id := h.nextID
	ch := make(chan Message, buffer)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if existing, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(existing)
		}
	}
}

// Broadcast delivers msg to every subscriber without blocking.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close unsubscribes everyone. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
