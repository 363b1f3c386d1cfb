package events

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingObserver struct {
	name    string
	handles map[string]bool
	err     error

	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) OnEvent(e Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
	return o.err
}

func (o *recordingObserver) GetName() string { return o.name }

func (o *recordingObserver) ShouldHandle(eventType string) bool {
	return o.handles == nil || o.handles[eventType]
}

func (o *recordingObserver) received() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Event(nil), o.events...)
}

func TestDispatch_FiltersAndContinuesOnError(t *testing.T) {
	d := NewEventDispatcher(nil)
	failing := &recordingObserver{name: "failing", err: errors.New("boom")}
	deletesOnly := &recordingObserver{name: "deletes", handles: map[string]bool{DeckDeleted: true}}
	d.Register(failing)
	d.Register(deletesOnly)

	d.Dispatch(NewTypedEvent(context.Background(), DeckCreated, DeckCreatedEvent{DeckID: "d1"}))
	d.Dispatch(NewTypedEvent(context.Background(), DeckDeleted, DeckDeletedEvent{DeckID: "d1"}))

	if got := len(failing.received()); got != 2 {
		t.Errorf("failing observer got %d events, want 2", got)
	}
	got := deletesOnly.received()
	if len(got) != 1 || got[0].Type != DeckDeleted {
		t.Errorf("deletes observer got %+v, want one %s", got, DeckDeleted)
	}
}

func TestUnregister(t *testing.T) {
	d := NewEventDispatcher(nil)
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	d.Register(a)
	d.Register(b)
	d.Unregister(a)

	if d.ObserverCount() != 1 {
		t.Fatalf("expected 1 observer, got %d", d.ObserverCount())
	}

	d.Dispatch(Event{Type: DeckUpdated})
	if len(a.received()) != 0 {
		t.Error("unregistered observer should not receive events")
	}
	if len(b.received()) != 1 {
		t.Error("remaining observer should receive the event")
	}
}

func TestGetTypedData(t *testing.T) {
	event := NewTypedEvent(context.Background(), DeckCreated, DeckCreatedEvent{DeckID: "d1", Name: "Elves"})

	data, ok := GetTypedData[DeckCreatedEvent](event)
	if !ok {
		t.Fatal("Expected GetTypedData to succeed")
	}
	if data.Name != "Elves" {
		t.Errorf("Expected Name 'Elves', got '%s'", data.Name)
	}

	if _, ok := GetTypedData[DeckDeletedEvent](event); ok {
		t.Error("Expected GetTypedData to fail for wrong type")
	}
	if _, ok := GetTypedData[DeckDeletedEvent](Event{Type: DeckDeleted}); ok {
		t.Error("Expected GetTypedData to fail for nil data")
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	d := NewEventDispatcher(nil)
	obs := &recordingObserver{name: "obs"}
	d.Register(obs)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Event{Type: DeckUpdated})
		}()
	}
	wg.Wait()

	if got := len(obs.received()); got != 20 {
		t.Errorf("expected 20 events, got %d", got)
	}
}
