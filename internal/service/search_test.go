package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
	"github.com/ramonehamilton/mtg-deckforge/internal/search"
)

func TestSearchService_Search(t *testing.T) {
	cards := newFakeCards()
	svc := NewSearchService(cards, nil, nil)

	resp, err := svc.Search(context.Background(), SearchRequest{
		Query:  "  t:creature OR t:instant ",
		Filter: search.Filter{Colors: []string{"R"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "t:creature OR t:instant", cards.lastQuery)
	assert.Equal(t, 3, resp.TotalCards)
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "Lightning Bolt", resp.Cards[0].Name)
}

func TestSearchService_SearchSorted(t *testing.T) {
	svc := NewSearchService(newFakeCards(), nil, nil)
	resp, err := svc.Search(context.Background(), SearchRequest{
		Query: "game:paper",
		Sort:  search.Sort{Field: search.FieldName, Dir: "desc"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Cards, 3)
	assert.Equal(t, "Llanowar Elves", resp.Cards[0].Name)
	assert.Equal(t, "Forest", resp.Cards[2].Name)
}

func TestSearchService_SearchErrors(t *testing.T) {
	svc := NewSearchService(newFakeCards(), nil, nil)

	_, err := svc.Search(context.Background(), SearchRequest{Query: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), SearchRequest{Query: "bad("})
	assert.True(t, scryfall.IsBadQuery(err))
}

func TestSearchService_Natural(t *testing.T) {
	cards := newFakeCards()
	tr := &fakeTranslator{out: "c:g t:creature"}
	svc := NewSearchService(cards, tr, nil)

	resp, err := svc.Natural(context.Background(), SearchRequest{
		Query:  "green creatures",
		Filter: search.Filter{Types: []string{"creature"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "c:g t:creature", resp.TranslatedQuery)
	assert.Equal(t, "c:g t:creature", resp.Query)
	assert.Equal(t, "c:g t:creature", cards.lastQuery)
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, "Llanowar Elves", resp.Cards[0].Name)
}

func TestSearchService_NaturalTranslationFails(t *testing.T) {
	boom := errors.New("model offline")
	svc := NewSearchService(newFakeCards(), &fakeTranslator{err: boom}, nil)

	_, err := svc.Natural(context.Background(), SearchRequest{Query: "cheap removal"})
	assert.ErrorIs(t, err, boom)
}

func TestSearchService_TranslateWithoutModel(t *testing.T) {
	svc := NewSearchService(newFakeCards(), nil, nil)

	_, err := svc.Translate(context.Background(), "red burn spells")
	assert.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = svc.Translate(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchService_Named(t *testing.T) {
	cards := newFakeCards()
	svc := NewSearchService(cards, nil, nil)
	ctx := context.Background()

	c, err := svc.Named(ctx, "Forest", "", "")
	require.NoError(t, err)
	assert.Equal(t, "forest", c.ID)

	c, err = svc.Named(ctx, "", "bolt", "")
	require.NoError(t, err)
	assert.Equal(t, "bolt", c.ID)

	_, err = svc.Named(ctx, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Named(ctx, "Forest", "bolt", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Named(ctx, "Black Lotus", "", "")
	assert.True(t, scryfall.IsNotFound(err))
}

func TestSearchService_AutocompleteRandomCard(t *testing.T) {
	cards := newFakeCards()
	svc := NewSearchService(cards, nil, nil)
	ctx := context.Background()

	names, err := svc.Autocomplete(ctx, "ll")
	require.NoError(t, err)
	assert.Equal(t, []string{"Llanowar Elves"}, names)

	names, err = svc.Autocomplete(ctx, "zz")
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)

	names, err = svc.Autocomplete(ctx, " ")
	require.NoError(t, err)
	assert.Empty(t, names)

	c, err := svc.Random(ctx, " t:instant ")
	require.NoError(t, err)
	assert.Equal(t, "Lightning Bolt", c.Name)
	assert.Equal(t, "t:instant", cards.lastQuery)

	_, err = svc.Card(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	c, err = svc.Card(ctx, "elf")
	require.NoError(t, err)
	assert.Equal(t, "Llanowar Elves", c.Name)
}
