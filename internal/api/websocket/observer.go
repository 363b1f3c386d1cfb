package websocket

import (
	"github.com/ramonehamilton/mtg-deckforge/internal/events"
)

// Observer forwards dispatched deck events to WebSocket clients.
type Observer struct {
	hub *Hub
}

// NewObserver creates an observer that broadcasts through hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event. Events dispatched after the hub stopped are
// dropped silently.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		return nil
	}
	o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data})
	return nil
}

// GetName returns the observer's name.
func (o *Observer) GetName() string {
	return "WebSocketObserver"
}

// ShouldHandle reports whether the event type is one clients subscribe to.
func (o *Observer) ShouldHandle(eventType string) bool {
	switch eventType {
	case events.DeckCreated, events.DeckUpdated, events.DeckDeleted:
		return true
	default:
		return false
	}
}

var _ events.Observer = (*Observer)(nil)
