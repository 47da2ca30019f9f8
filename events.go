package main

import (
	"sync"
	"time"
)

// EventType names a compositor event published to observers.
type EventType string

const (
	EventWindowCreated     EventType = "window.created"
	EventWindowDestroyed   EventType = "window.destroyed"
	EventWindowActivated   EventType = "window.activated"
	EventWindowDeactivated EventType = "window.deactivated"
	EventWindowMoved       EventType = "window.moved"
	EventWindowResized     EventType = "window.resized"
	EventWindowRaised      EventType = "window.raised"
	EventGrabStarted       EventType = "grab.started"
	EventGrabEnded         EventType = "grab.ended"
	EventResizeState       EventType = "resize.state"
)

// Event is something that happened inside the compositor, as seen by
// observers such as the websocket stream.
type Event struct {
	Type    EventType              `json:"type"`
	Surface SurfaceID              `json:"surface,omitempty"`
	Time    time.Time              `json:"time"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// EventHub fans events out to subscribers. Publishing never blocks: a
// subscriber that falls behind loses events.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewEventHub creates a hub with no subscribers.
func NewEventHub() *EventHub {
	return &EventHub{subs: map[chan Event]struct{}{}}
}

// Subscribe registers a subscriber with the given buffer. The returned
// function unsubscribes and closes the channel.
func (h *EventHub) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to every subscriber with room for it.
func (h *EventHub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
