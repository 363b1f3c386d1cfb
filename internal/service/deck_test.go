package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/events"
	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

type fakeAnalyst struct {
	got advisor.Request
}

func (f *fakeAnalyst) Analyze(_ context.Context, req advisor.Request) (string, error) {
	f.got = req
	return "<h3>Looks fine</h3>", nil
}

func newDeckService(t *testing.T, opts ...DeckOption) (*DeckService, *fakeCards, *recordingPublisher) {
	t.Helper()
	cards := newFakeCards()
	pub := &recordingPublisher{}
	opts = append([]DeckOption{WithPublisher(pub)}, opts...)
	return NewDeckService(deck.NewMemoryRepository(), cards, opts...), cards, pub
}

func TestDeckService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newDeckService(t)

	d, err := svc.Create(ctx, CreateDeckInput{Name: "  Gruul Aggro ", Format: "modern"})
	require.NoError(t, err)
	assert.Equal(t, "Gruul Aggro", d.Name)
	assert.Equal(t, "modern", d.Format)

	name := "Gruul Stompy"
	updated, err := svc.Update(ctx, d.ID, UpdateDeckInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Gruul Stompy", updated.Name)
	assert.Equal(t, "modern", updated.Format)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gruul Stompy", list[0].Name)
	assert.Equal(t, 0, list[0].CardCount)

	require.NoError(t, svc.Delete(ctx, d.ID))
	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, deck.ErrNotFound)

	assert.Equal(t, []string{events.DeckCreated, events.DeckUpdated, events.DeckDeleted}, pub.types())
}

func TestDeckService_CreateRequiresName(t *testing.T) {
	svc, _, pub := newDeckService(t)
	_, err := svc.Create(context.Background(), CreateDeckInput{Name: "   "})
	assert.ErrorIs(t, err, deck.ErrInvalid)
	assert.Empty(t, pub.types())
}

func TestDeckService_UpdateBlankFormatFallsBack(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Deck", Format: "standard"})
	require.NoError(t, err)

	blank := ""
	updated, err := svc.Update(ctx, d.ID, UpdateDeckInput{Format: &blank})
	require.NoError(t, err)
	assert.Equal(t, deck.DefaultFormat, updated.Format)
}

func TestDeckService_AddCard(t *testing.T) {
	ctx := context.Background()
	svc, cards, pub := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Deck"})
	require.NoError(t, err)

	_, err = svc.AddCard(ctx, d.ID, AddCardInput{Name: "Lightning Bolt"})
	require.NoError(t, err)
	assert.Equal(t, 1, cards.exactCalls)
	assert.Equal(t, 0, cards.fuzzyCalls)

	got, err := svc.AddCard(ctx, d.ID, AddCardInput{Name: "llanowar"})
	require.NoError(t, err)
	assert.Equal(t, 1, cards.fuzzyCalls, "fuzzy lookup after exact miss")

	got, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "bolt"})
	require.NoError(t, err)

	bolt, ok := got.Card("bolt")
	require.True(t, ok)
	assert.Equal(t, 2, bolt.Count)
	assert.Equal(t, "Instants", bolt.Category)
	assert.Equal(t, "152", bolt.CollectorNumber)

	elf, ok := got.Card("elf")
	require.True(t, ok)
	assert.Equal(t, "Creatures", elf.Category)
	assert.Equal(t, 3, got.TotalCards())

	update, ok := events.GetTypedData[events.DeckUpdatedEvent](pub.last())
	require.True(t, ok)
	assert.Equal(t, 3, update.TotalCards)
	assert.Equal(t, 3, update.Stats.TotalCards)
	assert.Equal(t, 1, update.Stats.TypeDistribution[deckeval.CategoryCreature])
}

func TestDeckService_AddCardErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Deck"})
	require.NoError(t, err)

	_, err = svc.AddCard(ctx, d.ID, AddCardInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddCard(ctx, d.ID, AddCardInput{Name: "Black Lotus"})
	assert.True(t, scryfall.IsNotFound(err))

	_, err = svc.AddCard(ctx, "missing", AddCardInput{CardID: "bolt"})
	assert.ErrorIs(t, err, deck.ErrNotFound)
}

func TestDeckService_SetCountAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Deck"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "forest"})
	require.NoError(t, err)

	got, err := svc.SetCardCount(ctx, d.ID, "forest", 17)
	require.NoError(t, err)
	assert.Equal(t, 17, got.TotalCards())

	got, err = svc.RemoveCard(ctx, d.ID, "forest")
	require.NoError(t, err)
	assert.Equal(t, 16, got.TotalCards())

	got, err = svc.SetCardCount(ctx, d.ID, "forest", 0)
	require.NoError(t, err)
	assert.Empty(t, got.Cards)

	_, err = svc.RemoveCard(ctx, d.ID, "forest")
	assert.ErrorIs(t, err, ErrCardNotInDeck)
	_, err = svc.SetCardCount(ctx, d.ID, "bolt", 2)
	assert.ErrorIs(t, err, ErrCardNotInDeck)
}

func TestDeckService_Evaluate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Burn"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "bolt"})
	require.NoError(t, err)
	_, err = svc.SetCardCount(ctx, d.ID, "bolt", 4)
	require.NoError(t, err)

	eval, err := svc.Evaluate(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, eval.Stats.TotalCards)
	assert.Equal(t, 0, eval.Stats.LandCount)
	require.Len(t, eval.Recommendations, 1)
	assert.Equal(t, deckeval.CodeCreatureDensity, eval.Recommendations[0].Code)
	assert.Equal(t, deckeval.SeverityHigh, eval.Recommendations[0].Severity)

	// A small all-creature curve at one mana needs nothing.
	elves, err := svc.Create(ctx, CreateDeckInput{Name: "Elves"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, elves.ID, AddCardInput{CardID: "elf"})
	require.NoError(t, err)
	_, err = svc.SetCardCount(ctx, elves.ID, "elf", 4)
	require.NoError(t, err)
	eval, err = svc.Evaluate(ctx, elves.ID)
	require.NoError(t, err)
	assert.Empty(t, eval.Recommendations)

	direct, err := svc.EvaluateCards([]deckeval.OwnedCard{{Name: "Forest", Count: 17, TypeLine: "Basic Land"}})
	require.NoError(t, err)
	assert.Equal(t, 17, direct.Stats.LandCount)

	_, err = svc.EvaluateCards([]deckeval.OwnedCard{{Name: "Forest", Count: 0, TypeLine: "Basic Land"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, deckeval.ErrInvalidCard)
	_, err = svc.EvaluateCards([]deckeval.OwnedCard{{Name: "Odd", Count: 1, TypeLine: "Creature", Colors: []string{"X"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Evaluate(ctx, "missing")
	assert.ErrorIs(t, err, deck.ErrNotFound)
}

func TestDeckService_Analyze(t *testing.T) {
	ctx := context.Background()
	analyst := &fakeAnalyst{}
	svc, _, _ := newDeckService(t, WithAnalyst(analyst))
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Burn", Format: "modern"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "bolt"})
	require.NoError(t, err)

	report, err := svc.Analyze(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "<h3>Looks fine</h3>", report)
	assert.Equal(t, "Burn", analyst.got.Name)
	assert.Equal(t, "modern", analyst.got.Format)
	require.Len(t, analyst.got.Cards, 1)
	assert.Equal(t, "Lightning Bolt", analyst.got.Cards[0].Name)
}

func TestDeckService_AnalyzeWithoutModel(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Burn"})
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, d.ID)
	assert.ErrorIs(t, err, advisor.ErrEmptyDeck)

	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "bolt"})
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, d.ID)
	assert.True(t, errors.Is(err, llm.ErrNotConfigured), "got %v", err)
}

func TestDeckService_ExportAndPurchase(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t, WithAffiliateID("partner42"))
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Burn"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "bolt"})
	require.NoError(t, err)
	_, err = svc.SetCardCount(ctx, d.ID, "bolt", 4)
	require.NoError(t, err)

	exp, err := svc.Export(ctx, d.ID, "")
	require.NoError(t, err)
	assert.Contains(t, exp.Content, "4 Lightning Bolt (M21) 152")

	_, err = svc.Export(ctx, d.ID, "mtgo")
	assert.ErrorIs(t, err, ErrInvalidInput)

	quote, err := svc.Purchase(ctx, d.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.00, quote.EstimatedPrice, 0.001)
	assert.Contains(t, quote.MassEntryURL, "partner=partner42")
	assert.Contains(t, quote.MassEntryURL, "4%20Lightning%20Bolt")
}

func TestDeckService_Import(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newDeckService(t)

	result, err := svc.Import(ctx, ImportInput{
		Format: "standard",
		List:   "Deck\n4 Lightning Bolt (M21) 152\n20 Forest\n2 Nonexistent Card\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Imported Deck", result.Deck.Name)
	assert.Equal(t, 24, result.Deck.TotalCards())
	assert.Equal(t, []string{"Nonexistent Card"}, result.Unresolved)

	stored, err := svc.Get(ctx, result.Deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 24, stored.TotalCards())
	assert.Equal(t, []string{events.DeckCreated}, pub.types())
}

func TestDeckService_RenderCharts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newDeckService(t)
	d, err := svc.Create(ctx, CreateDeckInput{Name: "Chart Deck"})
	require.NoError(t, err)
	_, err = svc.AddCard(ctx, d.ID, AddCardInput{CardID: "elf"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderCharts(ctx, d.ID, &buf))
	assert.Contains(t, buf.String(), "Chart Deck")
	assert.Contains(t, buf.String(), "Mana Curve")

	assert.ErrorIs(t, svc.RenderCharts(ctx, "missing", &buf), deck.ErrNotFound)
}
