package deck

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository persists decks. Implementations return ErrNotFound for unknown
// ids and never hand out pointers into their own storage.
type Repository interface {
	// Create stores a new deck.
	Create(ctx context.Context, d *Deck) error

	// Get retrieves a deck by its ID.
	Get(ctx context.Context, id string) (*Deck, error)

	// List retrieves all decks, most recently updated first.
	List(ctx context.Context) ([]*Deck, error)

	// Update replaces a stored deck, cards included.
	Update(ctx context.Context, d *Deck) error

	// Delete removes a deck by its ID.
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps decks in a map. It is used by tests and when no
// database path is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	decks map[string]*Deck
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{decks: make(map[string]*Deck)}
}

func (r *MemoryRepository) Create(ctx context.Context, d *Deck) error {
	_ = ctx
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decks[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, d.ID)
	}
	r.decks[d.ID] = d.Clone()
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Deck, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Deck, error) {
	_ = ctx

	r.mu.RLock()
	out := make([]*Deck, 0, len(r.decks))
	for _, d := range r.decks {
		out = append(out, d.Clone())
	}
	r.mu.RUnlock()

	SortByUpdated(out)
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, d *Deck) error {
	_ = ctx
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[d.ID]; !ok {
		return ErrNotFound
	}
	r.decks[d.ID] = d.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[id]; !ok {
		return ErrNotFound
	}
	delete(r.decks, id)
	return nil
}

// SortByUpdated orders decks newest first, breaking ties by name then id.
func SortByUpdated(decks []*Deck) {
	sort.SliceStable(decks, func(i, j int) bool {
		a, b := decks[i], decks[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
