package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/charts"
	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckio"
	"github.com/ramonehamilton/mtg-deckforge/internal/events"
	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/purchase"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

// DeckService handles all deck builder operations.
type DeckService struct {
	repo        deck.Repository
	cards       CardSource
	analyst     Analyst
	importer    *deckio.Importer
	publisher   events.Publisher
	affiliateID string
	logger      *zap.Logger

	// mu serializes read-modify-write cycles on stored decks.
	mu sync.Mutex
}

// DeckOption configures a DeckService.
type DeckOption func(*DeckService)

// WithAnalyst sets the deck analyst. Without one, analysis reports
// llm.ErrNotConfigured.
func WithAnalyst(a Analyst) DeckOption {
	return func(s *DeckService) { s.analyst = a }
}

// WithPublisher sets where deck events are sent.
func WithPublisher(p events.Publisher) DeckOption {
	return func(s *DeckService) { s.publisher = p }
}

// WithAffiliateID sets the TCGplayer affiliate id used in purchase links.
func WithAffiliateID(id string) DeckOption {
	return func(s *DeckService) { s.affiliateID = id }
}

// WithDeckLogger sets the logger.
func WithDeckLogger(l *zap.Logger) DeckOption {
	return func(s *DeckService) { s.logger = l }
}

// NewDeckService creates a DeckService.
func NewDeckService(repo deck.Repository, cards CardSource, opts ...DeckOption) *DeckService {
	s := &DeckService{
		repo:      repo,
		cards:     cards,
		publisher: events.Nop{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.analyst == nil {
		s.analyst = advisor.New(llm.Unavailable{}, s.logger)
	}
	s.importer = deckio.NewImporter(cards, s.logger)
	return s
}

// DeckSummary represents a deck in list views.
type DeckSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Format        string    `json:"format"`
	CardCount     int       `json:"cardCount"`
	ColorIdentity []string  `json:"colorIdentity"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateDeckInput holds the fields of a new deck.
type CreateDeckInput struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Description string `json:"description"`
}

// UpdateDeckInput changes deck metadata. Nil fields are left alone.
type UpdateDeckInput struct {
	Name        *string `json:"name,omitempty"`
	Format      *string `json:"format,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddCardInput identifies a card to add, by Scryfall id or by name.
type AddCardInput struct {
	CardID string `json:"cardId"`
	Name   string `json:"name"`
	Set    string `json:"set"`
}

// Create stores a new empty deck.
func (s *DeckService) Create(ctx context.Context, in CreateDeckInput) (*deck.Deck, error) {
	d := deck.New(strings.TrimSpace(in.Name), strings.TrimSpace(in.Format))
	d.Description = in.Description
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("deck created", zap.String("deck_id", d.ID), zap.String("name", d.Name))
	s.publisher.Dispatch(events.NewTypedEvent(ctx, events.DeckCreated, events.DeckCreatedEvent{
		DeckID: d.ID,
		Name:   d.Name,
		Format: d.Format,
	}))
	return d, nil
}

// Get returns a deck with its cards.
func (s *DeckService) Get(ctx context.Context, id string) (*deck.Deck, error) {
	return s.repo.Get(ctx, id)
}

// List returns a summary of every deck, most recently updated first.
func (s *DeckService) List(ctx context.Context) ([]DeckSummary, error) {
	decks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeckSummary, 0, len(decks))
	for _, d := range decks {
		out = append(out, DeckSummary{
			ID:            d.ID,
			Name:          d.Name,
			Format:        d.Format,
			CardCount:     d.TotalCards(),
			ColorIdentity: deckeval.ComputeStats(d.Owned()).ColorIdentity,
			UpdatedAt:     d.UpdatedAt,
		})
	}
	return out, nil
}

// Update changes deck metadata.
func (s *DeckService) Update(ctx context.Context, id string, in UpdateDeckInput) (*deck.Deck, error) {
	return s.mutate(ctx, id, func(d *deck.Deck) error {
		if in.Name != nil {
			d.Name = strings.TrimSpace(*in.Name)
		}
		if in.Format != nil {
			d.Format = strings.TrimSpace(*in.Format)
			if d.Format == "" {
				d.Format = deck.DefaultFormat
			}
		}
		if in.Description != nil {
			d.Description = *in.Description
		}
		d.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// Delete removes a deck.
func (s *DeckService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deck deleted", zap.String("deck_id", id))
	s.publisher.Dispatch(events.NewTypedEvent(ctx, events.DeckDeleted, events.DeckDeletedEvent{DeckID: id}))
	return nil
}

// AddCard adds one copy of a card. A name is looked up exactly first and
// fuzzily when Scryfall has no exact match.
func (s *DeckService) AddCard(ctx context.Context, id string, in AddCardInput) (*deck.Deck, error) {
	card, err := s.resolveCard(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(d *deck.Deck) error {
		d.AddCard(deck.CardFromScryfall(card))
		return nil
	})
}

func (s *DeckService) resolveCard(ctx context.Context, in AddCardInput) (*scryfall.Card, error) {
	if id := strings.TrimSpace(in.CardID); id != "" {
		return s.cards.GetCard(ctx, id)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: card id or name is required", ErrInvalidInput)
	}

	card, err := s.cards.NamedExact(ctx, name, in.Set)
	if err == nil {
		return card, nil
	}
	if !scryfall.IsNotFound(err) {
		return nil, err
	}
	s.logger.Debug("no exact match, trying fuzzy", zap.String("name", name))
	return s.cards.NamedFuzzy(ctx, name, in.Set)
}

// SetCardCount sets how many copies of a card the deck holds. A count of
// zero or less removes it.
func (s *DeckService) SetCardCount(ctx context.Context, id, cardID string, count int) (*deck.Deck, error) {
	return s.mutate(ctx, id, func(d *deck.Deck) error {
		if !d.SetCount(cardID, count) {
			return fmt.Errorf("%w: %s", ErrCardNotInDeck, cardID)
		}
		return nil
	})
}

// RemoveCard removes one copy of a card.
func (s *DeckService) RemoveCard(ctx context.Context, id, cardID string) (*deck.Deck, error) {
	return s.mutate(ctx, id, func(d *deck.Deck) error {
		if !d.RemoveCard(cardID) {
			return fmt.Errorf("%w: %s", ErrCardNotInDeck, cardID)
		}
		return nil
	})
}

// mutate loads a deck, applies fn, stores the result and publishes
// deck:updated with fresh statistics.
func (s *DeckService) mutate(ctx context.Context, id string, fn func(*deck.Deck) error) (*deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, d)
	return d, nil
}

func (s *DeckService) publishUpdated(ctx context.Context, d *deck.Deck) {
	s.publisher.Dispatch(events.NewTypedEvent(ctx, events.DeckUpdated, events.DeckUpdatedEvent{
		DeckID:     d.ID,
		Name:       d.Name,
		TotalCards: d.TotalCards(),
		Stats:      deckeval.ComputeStats(d.Owned()),
	}))
}

// Evaluate returns stats, recommendations and suggestions for a stored deck.
func (s *DeckService) Evaluate(ctx context.Context, id string) (deckeval.Evaluation, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return deckeval.Evaluation{}, err
	}
	return deckeval.Evaluate(d.Owned()), nil
}

// EvaluateCards evaluates an unsaved card list. Entries with a count below
// one or colors outside WUBRG are rejected with ErrInvalidInput.
func (s *DeckService) EvaluateCards(cards []deckeval.OwnedCard) (deckeval.Evaluation, error) {
	if err := deckeval.ValidateCards(cards); err != nil {
		return deckeval.Evaluation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return deckeval.Evaluate(cards), nil
}

// Analyze asks the language model for a report on a stored deck.
func (s *DeckService) Analyze(ctx context.Context, id string) (string, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.AnalyzeCards(ctx, advisor.Request{Name: d.Name, Format: d.Format, Cards: d.Owned()})
}

// AnalyzeCards asks the language model for a report on an unsaved deck.
func (s *DeckService) AnalyzeCards(ctx context.Context, req advisor.Request) (string, error) {
	if err := deckeval.ValidateCards(req.Cards); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.analyst.Analyze(ctx, req)
}

// Export renders a stored deck. An empty format means Arena.
func (s *DeckService) Export(ctx context.Context, id, format string) (*deckio.Export, error) {
	f, err := deckio.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return deckio.ExportDeck(d, f)
}

// Purchase returns the TCGplayer mass entry link and price estimate.
func (s *DeckService) Purchase(ctx context.Context, id string) (purchase.Quote, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return purchase.Quote{}, err
	}
	return purchase.QuoteDeck(d, s.affiliateID), nil
}

// ImportInput is a pasted deck list.
type ImportInput struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	List   string `json:"list"`
}

// Import builds a deck from a pasted list and stores it.
func (s *DeckService) Import(ctx context.Context, in ImportInput) (*deckio.ImportResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Imported Deck"
	}
	result, err := s.importer.Import(ctx, name, strings.TrimSpace(in.Format), in.List)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, result.Deck); err != nil {
		return nil, err
	}

	s.publisher.Dispatch(events.NewTypedEvent(ctx, events.DeckCreated, events.DeckCreatedEvent{
		DeckID: result.Deck.ID,
		Name:   result.Deck.Name,
		Format: result.Deck.Format,
	}))
	return result, nil
}

// RenderCharts writes the deck's charts page to w.
func (s *DeckService) RenderCharts(ctx context.Context, id string, w io.Writer) error {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	stats := deckeval.ComputeStats(d.Owned())
	return charts.RenderDeck(w, d.Name, stats, charts.DefaultChartConfig())
}
