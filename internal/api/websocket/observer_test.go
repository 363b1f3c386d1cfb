package websocket

import (
	"context"
	"testing"

	"github.com/ramonehamilton/mtg-deckforge/internal/events"
)

func TestObserver_ShouldHandle(t *testing.T) {
	observer := NewObserver(NewHub(nil))

	for _, eventType := range []string{events.DeckCreated, events.DeckUpdated, events.DeckDeleted} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected ShouldHandle(%s) to return true", eventType)
		}
	}
	if observer.ShouldHandle("stats:updated") {
		t.Error("Expected unrelated events to be ignored")
	}
	if observer.GetName() != "WebSocketObserver" {
		t.Errorf("Expected 'WebSocketObserver', got '%s'", observer.GetName())
	}
}

func TestObserver_OnEvent_NilHub(t *testing.T) {
	observer := NewObserver(nil)
	if err := observer.OnEvent(events.Event{Type: events.DeckCreated}); err != nil {
		t.Errorf("Expected no error with nil hub, got %v", err)
	}
}

func TestObserver_ForwardsThroughDispatcher(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	dispatcher := events.NewEventDispatcher(nil)
	dispatcher.Register(NewObserver(hub))
	dispatcher.Dispatch(events.NewTypedEvent(context.Background(), events.DeckCreated,
		events.DeckCreatedEvent{DeckID: "d1", Name: "Elves", Format: "pauper"}))

	received := readEvent(t, conn)
	if received.Type != events.DeckCreated {
		t.Fatalf("Expected %s, got %s", events.DeckCreated, received.Type)
	}
	data, ok := received.Data.(map[string]any)
	if !ok {
		t.Fatal("Expected Data to be an object")
	}
	if data["deckId"] != "d1" || data["name"] != "Elves" || data["format"] != "pauper" {
		t.Errorf("Unexpected payload %v", data)
	}
}
