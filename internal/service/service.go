// Package service wires the deck repository, the Scryfall client, the
// evaluation engine and the language model features into the operations the
// HTTP API and CLI expose.
package service

import (
	"context"
	"errors"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

var (
	// ErrInvalidInput is returned when a request is missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCardNotInDeck is returned when a card operation names a card the
	// deck does not contain.
	ErrCardNotInDeck = errors.New("card not in deck")
)

// CardSource is the part of the Scryfall client the services use.
type CardSource interface {
	Search(ctx context.Context, query string, opts scryfall.SearchOptions) (*scryfall.SearchResult, error)
	NamedExact(ctx context.Context, name, set string) (*scryfall.Card, error)
	NamedFuzzy(ctx context.Context, name, set string) (*scryfall.Card, error)
	Autocomplete(ctx context.Context, prefix string) (*scryfall.Catalog, error)
	Random(ctx context.Context, query string) (*scryfall.Card, error)
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
}

// Translator turns natural language into Scryfall syntax.
type Translator interface {
	Translate(ctx context.Context, query string) (string, error)
}

// Analyst writes a free-text deck report.
type Analyst interface {
	Analyze(ctx context.Context, req advisor.Request) (string, error)
}
