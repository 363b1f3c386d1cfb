package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
	"github.com/ramonehamilton/mtg-deckforge/internal/search"
	"github.com/ramonehamilton/mtg-deckforge/internal/translate"
)

// SearchService handles card lookup and natural language search.
type SearchService struct {
	cards      CardSource
	translator Translator
	logger     *zap.Logger
}

// NewSearchService creates a SearchService. A nil translator makes every
// translation fail with llm.ErrNotConfigured.
func NewSearchService(cards CardSource, translator Translator, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if translator == nil {
		translator = translate.New(llm.Unavailable{}, translate.WithCacheTTL(0))
	}
	return &SearchService{cards: cards, translator: translator, logger: logger}
}

// SearchRequest is a Scryfall query plus the client side filter and order.
type SearchRequest struct {
	Query   string                 `json:"query"`
	Options scryfall.SearchOptions `json:"-"`
	Filter  search.Filter          `json:"filter"`
	Sort    search.Sort            `json:"sort"`
}

// SearchResponse is one page of results.
type SearchResponse struct {
	Query      string          `json:"query"`
	TotalCards int             `json:"totalCards"`
	HasMore    bool            `json:"hasMore"`
	Cards      []scryfall.Card `json:"cards"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// NaturalResponse adds the translated query to a search response.
type NaturalResponse struct {
	TranslatedQuery string `json:"translatedQuery"`
	SearchResponse
}

// Search runs a Scryfall query and applies the filter and sort to the page
// that comes back. TotalCards is Scryfall's count, before filtering.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	result, err := s.cards.Search(ctx, query, req.Options)
	if err != nil {
		return nil, err
	}

	cards := search.Apply(result.Data, req.Filter, req.Sort)
	s.logger.Debug("search",
		zap.String("query", query),
		zap.Int("total", result.TotalCards),
		zap.Int("kept", len(cards)))

	return &SearchResponse{
		Query:      query,
		TotalCards: result.TotalCards,
		HasMore:    result.HasMore,
		Cards:      cards,
		Warnings:   result.Warnings,
	}, nil
}

// Translate converts natural language to Scryfall syntax.
func (s *SearchService) Translate(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, translate.ErrEmptyQuery)
	}
	return s.translator.Translate(ctx, query)
}

// Natural translates a request and searches with the result.
func (s *SearchService) Natural(ctx context.Context, req SearchRequest) (*NaturalResponse, error) {
	translated, err := s.Translate(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	s.logger.Info("natural search",
		zap.String("input", req.Query),
		zap.String("translated", translated))

	req.Query = translated
	resp, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return &NaturalResponse{TranslatedQuery: translated, SearchResponse: *resp}, nil
}

// Named looks a card up by exact or fuzzy name. Exactly one must be given.
func (s *SearchService) Named(ctx context.Context, exact, fuzzy, set string) (*scryfall.Card, error) {
	exact, fuzzy = strings.TrimSpace(exact), strings.TrimSpace(fuzzy)
	switch {
	case exact != "" && fuzzy != "":
		return nil, fmt.Errorf("%w: exact and fuzzy are mutually exclusive", ErrInvalidInput)
	case exact != "":
		return s.cards.NamedExact(ctx, exact, set)
	case fuzzy != "":
		return s.cards.NamedFuzzy(ctx, fuzzy, set)
	default:
		return nil, fmt.Errorf("%w: exact or fuzzy is required", ErrInvalidInput)
	}
}

// Autocomplete returns up to 20 card names starting with prefix. A blank
// prefix yields no names without calling Scryfall.
func (s *SearchService) Autocomplete(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	catalog, err := s.cards.Autocomplete(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if catalog.Data == nil {
		return []string{}, nil
	}
	return catalog.Data, nil
}

// Random returns a random card, optionally limited by a query.
func (s *SearchService) Random(ctx context.Context, query string) (*scryfall.Card, error) {
	return s.cards.Random(ctx, strings.TrimSpace(query))
}

// Card returns a card by Scryfall id.
func (s *SearchService) Card(ctx context.Context, id string) (*scryfall.Card, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: card id is required", ErrInvalidInput)
	}
	return s.cards.GetCard(ctx, id)
}
