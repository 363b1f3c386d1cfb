package deckio

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

// Resolver looks up cards by exact name.
type Resolver interface {
	GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
}

// ImportResult is a freshly built deck plus what could not be placed in it.
type ImportResult struct {
	Deck       *deck.Deck `json:"deck"`
	Unresolved []string   `json:"unresolved"`
	Warnings   []string   `json:"warnings"`
}

// Importer builds decks from pasted lists.
type Importer struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewImporter creates an Importer. A nil logger is replaced by a no-op logger.
func NewImporter(resolver Resolver, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{resolver: resolver, logger: logger}
}

// Import parses list and resolves every main deck and commander card.
// Sideboard cards are reported as a warning and left out. Names Scryfall
// does not know are listed in Unresolved; they do not fail the import.
func (im *Importer) Import(ctx context.Context, name, format, list string) (*ImportResult, error) {
	parsed, err := Parse(list)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Deck:       deck.New(name, format),
		Unresolved: []string{},
		Warnings:   append([]string{}, parsed.Warnings...),
	}

	if n := parsed.Count(BoardSideboard); n > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d sideboard cards were not imported", n))
	}

	var names []string
	seen := make(map[string]bool)
	for _, pc := range parsed.Cards {
		key := strings.ToLower(pc.Name)
		if pc.Board == BoardSideboard || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, pc.Name)
	}

	cards, notFound, err := im.resolver.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve card names: %w", err)
	}

	byName := indexByName(cards)
	missing := make(map[string]bool, len(notFound))
	for _, n := range notFound {
		missing[strings.ToLower(n)] = true
	}

	for _, pc := range parsed.Cards {
		if pc.Board == BoardSideboard {
			continue
		}
		key := strings.ToLower(pc.Name)
		sc, ok := byName[key]
		if !ok || missing[key] {
			if !containsFold(result.Unresolved, pc.Name) {
				result.Unresolved = append(result.Unresolved, pc.Name)
			}
			continue
		}

		c := deck.CardFromScryfall(sc)
		if pc.Board == BoardCommander {
			c.Category = "Commander"
		}
		added := result.Deck.AddCard(c)
		result.Deck.SetCount(added.ID, added.Count-1+pc.Quantity)
	}

	im.logger.Info("deck imported",
		zap.String("deck", name),
		zap.Int("lines", len(parsed.Cards)),
		zap.Int("cards", result.Deck.TotalCards()),
		zap.Int("unresolved", len(result.Unresolved)))

	return result, nil
}

// indexByName maps lower-cased card names, and each face name of
// multi-faced cards, to the card.
func indexByName(cards []scryfall.Card) map[string]*scryfall.Card {
	out := make(map[string]*scryfall.Card, len(cards))
	for i := range cards {
		c := &cards[i]
		out[strings.ToLower(c.Name)] = c
		for _, f := range c.CardFaces {
			key := strings.ToLower(f.Name)
			if _, taken := out[key]; !taken {
				out[key] = c
			}
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
