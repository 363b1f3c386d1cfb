// Package deck holds the deck aggregate and the repository contract used to
// persist it.
package deck

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
)

// DefaultFormat is used when a deck is created without a format.
const DefaultFormat = "commander"

// DefaultCategories are the builder columns every new deck starts with.
var DefaultCategories = []string{
	"Commander",
	"Creatures",
	"Instants",
	"Sorceries",
	"Artifacts",
	"Enchantments",
	"Planeswalkers",
	"Lands",
}

var (
	// ErrNotFound is returned when a deck does not exist.
	ErrNotFound = errors.New("deck not found")

	// ErrInvalid is returned when a deck fails validation.
	ErrInvalid = errors.New("invalid deck")

	// ErrAlreadyExists is returned by Create when the deck ID is taken.
	ErrAlreadyExists = errors.New("deck already exists")
)

// now is swapped in tests.
var now = time.Now

// Card is one entry in a deck. ID is the Scryfall card id.
type Card struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Count           int      `json:"count"`
	Category        string   `json:"category"`
	TypeLine        string   `json:"typeLine"`
	ManaCost        string   `json:"manaCost,omitempty"`
	ManaValue       float64  `json:"manaValue"`
	Colors          []string `json:"colors"`
	ColorIdentity   []string `json:"colorIdentity"`
	Rarity          string   `json:"rarity,omitempty"`
	SetCode         string   `json:"setCode,omitempty"`
	CollectorNumber string   `json:"collectorNumber,omitempty"`
	PriceUSD        *float64 `json:"priceUsd,omitempty"`
	ImageURI        string   `json:"imageUri,omitempty"`
}

// Deck is a named, ordered list of cards.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Format      string    `json:"format"`
	Categories  []string  `json:"categories"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New creates an empty deck with a fresh ID and the default categories.
func New(name, format string) *Deck {
	if format == "" {
		format = DefaultFormat
	}
	ts := now().UTC()
	return &Deck{
		ID:         uuid.NewString(),
		Name:       name,
		Format:     format,
		Categories: slices.Clone(DefaultCategories),
		Cards:      []Card{},
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

// Validate checks the invariants a stored deck must hold.
func (d *Deck) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	for _, c := range d.Cards {
		if c.ID == "" {
			return fmt.Errorf("%w: card id is required for %q", ErrInvalid, c.Name)
		}
		if c.Count < 1 {
			return fmt.Errorf("%w: count of %q must be positive", ErrInvalid, c.Name)
		}
	}
	return nil
}

// CategoryFor returns the builder column for a type line.
func CategoryFor(typeLine string) string {
	lower := strings.ToLower(typeLine)
	for _, c := range builderOrder {
		if strings.Contains(lower, c.keyword) {
			return c.category
		}
	}
	return "Other"
}

var builderOrder = []struct {
	keyword  string
	category string
}{
	{"creature", "Creatures"},
	{"instant", "Instants"},
	{"sorcery", "Sorceries"},
	{"artifact", "Artifacts"},
	{"enchantment", "Enchantments"},
	{"planeswalker", "Planeswalkers"},
	{"land", "Lands"},
}

// AddCard adds one copy of c. A card already in the deck has its count
// incremented; a new card is appended with count 1 and, when c.Category is
// empty, a category derived from its type line. The stored entry is returned.
func (d *Deck) AddCard(c Card) Card {
	defer d.touch()

	if i := d.index(c.ID); i >= 0 {
		d.Cards[i].Count++
		return d.Cards[i]
	}

	c.Count = 1
	if c.Category == "" {
		c.Category = CategoryFor(c.TypeLine)
	}
	d.Cards = append(d.Cards, c)
	return c
}

// RemoveCard removes one copy of the card, dropping the entry when its count
// reaches zero. It reports whether the card was in the deck.
func (d *Deck) RemoveCard(id string) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	d.Cards[i].Count--
	if d.Cards[i].Count <= 0 {
		d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
	}
	d.touch()
	return true
}

// SetCount sets the card's count. A count of zero or less removes the card.
func (d *Deck) SetCount(id string, count int) bool {
	i := d.index(id)
	if i < 0 {
		return false
	}
	if count <= 0 {
		d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
	} else {
		d.Cards[i].Count = count
	}
	d.touch()
	return true
}

// Card looks up an entry by id.
func (d *Deck) Card(id string) (Card, bool) {
	if i := d.index(id); i >= 0 {
		return d.Cards[i], true
	}
	return Card{}, false
}

// TotalCards sums the counts of every entry.
func (d *Deck) TotalCards() int {
	total := 0
	for _, c := range d.Cards {
		total += c.Count
	}
	return total
}

// ByCategory groups the cards by builder column. Every configured category
// is present, plus any extra category a card carries.
func (d *Deck) ByCategory() map[string][]Card {
	out := make(map[string][]Card, len(d.Categories))
	for _, cat := range d.Categories {
		out[cat] = nil
	}
	for _, c := range d.Cards {
		out[c.Category] = append(out[c.Category], c)
	}
	return out
}

// Owned converts the deck to the evaluation engine's input, skipping
// entries without a positive count.
func (d *Deck) Owned() []deckeval.OwnedCard {
	owned := make([]deckeval.OwnedCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		if c.Count <= 0 {
			continue
		}
		owned = append(owned, deckeval.OwnedCard{
			Name:          c.Name,
			Count:         c.Count,
			TypeLine:      c.TypeLine,
			ManaValue:     c.ManaValue,
			Colors:        c.Colors,
			ColorIdentity: c.ColorIdentity,
		})
	}
	return owned
}

// Clone returns a deep copy.
func (d *Deck) Clone() *Deck {
	cp := *d
	cp.Categories = slices.Clone(d.Categories)
	cp.Cards = make([]Card, len(d.Cards))
	for i, c := range d.Cards {
		c.Colors = slices.Clone(c.Colors)
		c.ColorIdentity = slices.Clone(c.ColorIdentity)
		if c.PriceUSD != nil {
			p := *c.PriceUSD
			c.PriceUSD = &p
		}
		cp.Cards[i] = c
	}
	return &cp
}

func (d *Deck) index(id string) int {
	for i, c := range d.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d *Deck) touch() {
	d.UpdatedAt = now().UTC()
}
