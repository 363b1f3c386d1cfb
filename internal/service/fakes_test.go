package service

import (
	"context"
	"strings"
	"sync"

	"github.com/ramonehamilton/mtg-deckforge/internal/events"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

func ptr[T any](v T) *T { return &v }

// fakeCards serves a fixed card pool by id and name.
type fakeCards struct {
	pool []scryfall.Card

	mu          sync.Mutex
	exactCalls  int
	fuzzyCalls  int
	lastQuery   string
	searchTotal int
}

func newFakeCards() *fakeCards {
	return &fakeCards{pool: []scryfall.Card{
		{ID: "bolt", Name: "Lightning Bolt", TypeLine: "Instant", CMC: 1, ManaCost: "{R}",
			Colors: []string{"R"}, ColorIdentity: []string{"R"}, Rarity: "common", SetCode: "m21",
			CollectorNumber: "152", Prices: scryfall.Prices{USD: ptr("1.00")}},
		{ID: "elf", Name: "Llanowar Elves", TypeLine: "Creature — Elf Druid", CMC: 1, ManaCost: "{G}",
			Colors: []string{"G"}, ColorIdentity: []string{"G"}, Rarity: "common", SetCode: "dom",
			CollectorNumber: "168"},
		{ID: "forest", Name: "Forest", TypeLine: "Basic Land — Forest", Colors: []string{},
			ColorIdentity: []string{"G"}, Rarity: "common", SetCode: "m21"},
	}}
}

func (f *fakeCards) byName(name string) (*scryfall.Card, bool) {
	for i := range f.pool {
		if strings.EqualFold(f.pool[i].Name, name) {
			c := f.pool[i]
			return &c, true
		}
	}
	return nil, false
}

func (f *fakeCards) Search(_ context.Context, query string, _ scryfall.SearchOptions) (*scryfall.SearchResult, error) {
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	if query == "bad(" {
		return nil, &scryfall.APIError{Status: 400, Code: "bad_request"}
	}
	total := f.searchTotal
	if total == 0 {
		total = len(f.pool)
	}
	return &scryfall.SearchResult{TotalCards: total, Data: append([]scryfall.Card(nil), f.pool...)}, nil
}

func (f *fakeCards) NamedExact(_ context.Context, name, _ string) (*scryfall.Card, error) {
	f.mu.Lock()
	f.exactCalls++
	f.mu.Unlock()
	if c, ok := f.byName(name); ok {
		return c, nil
	}
	return nil, &scryfall.NotFoundError{Details: name}
}

func (f *fakeCards) NamedFuzzy(_ context.Context, name, _ string) (*scryfall.Card, error) {
	f.mu.Lock()
	f.fuzzyCalls++
	f.mu.Unlock()
	for i := range f.pool {
		if strings.Contains(strings.ToLower(f.pool[i].Name), strings.ToLower(name)) {
			c := f.pool[i]
			return &c, nil
		}
	}
	return nil, &scryfall.NotFoundError{Details: name}
}

func (f *fakeCards) Autocomplete(_ context.Context, prefix string) (*scryfall.Catalog, error) {
	var out []string
	for _, c := range f.pool {
		if strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(prefix)) {
			out = append(out, c.Name)
		}
	}
	return &scryfall.Catalog{TotalValues: len(out), Data: out}, nil
}

func (f *fakeCards) Random(_ context.Context, query string) (*scryfall.Card, error) {
	f.mu.Lock()
	f.lastQuery = query
	f.mu.Unlock()
	c := f.pool[0]
	return &c, nil
}

func (f *fakeCards) GetCard(_ context.Context, id string) (*scryfall.Card, error) {
	for i := range f.pool {
		if f.pool[i].ID == id {
			c := f.pool[i]
			return &c, nil
		}
	}
	return nil, &scryfall.NotFoundError{URL: "/cards/" + id}
}

func (f *fakeCards) GetCardsByNames(_ context.Context, names []string) ([]scryfall.Card, []string, error) {
	var found []scryfall.Card
	var missing []string
	for _, n := range names {
		if c, ok := f.byName(n); ok {
			found = append(found, *c)
		} else {
			missing = append(missing, n)
		}
	}
	return found, missing, nil
}

// recordingPublisher keeps every dispatched event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Dispatch(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func (p *recordingPublisher) last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, query string) (string, error) {
	f.calls++
	return f.out, f.err
}
