package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-deckforge/internal/api/response"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
	"github.com/ramonehamilton/mtg-deckforge/internal/search"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
)

// CardService is what the card and search handlers need.
type CardService interface {
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResponse, error)
	Natural(ctx context.Context, req service.SearchRequest) (*service.NaturalResponse, error)
	Translate(ctx context.Context, query string) (string, error)
	Named(ctx context.Context, exact, fuzzy, set string) (*scryfall.Card, error)
	Autocomplete(ctx context.Context, prefix string) ([]string, error)
	Random(ctx context.Context, query string) (*scryfall.Card, error)
	Card(ctx context.Context, id string) (*scryfall.Card, error)
}

// CardHandler handles card lookup and search requests.
type CardHandler struct {
	svc CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

// Search runs a Scryfall query.
//
// Query parameters: q (required), unique, order, order_dir, page,
// include_extras, include_multilingual, include_variations, plus the
// colors, rarity, type, sort and dir filters applied to the results.
func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("q")) == "" {
		response.BadRequest(w, errors.New("q is required"))
		return
	}

	opts, err := searchOptions(q.Get)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	filter, sort := search.FromQuery(q)

	resp, err := h.svc.Search(r.Context(), service.SearchRequest{
		Query:   q.Get("q"),
		Options: opts,
		Filter:  filter,
		Sort:    sort,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, resp)
}

func searchOptions(get func(string) string) (scryfall.SearchOptions, error) {
	opts := scryfall.SearchOptions{
		Unique: get("unique"),
		Order:  get("order"),
		Dir:    get("order_dir"),
	}
	if p := get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return opts, errors.New("page must be a positive integer")
		}
		opts.Page = page
	}

	flags := []struct {
		name string
		dst  **bool
	}{
		{"include_extras", &opts.IncludeExtras},
		{"include_multilingual", &opts.IncludeMultilingual},
		{"include_variations", &opts.IncludeVariations},
	}
	for _, f := range flags {
		v := get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(f.name + " must be true or false")
		}
		*f.dst = &b
	}
	return opts, nil
}

// Named looks up a card by exact or fuzzy name.
func (h *CardHandler) Named(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	card, err := h.svc.Named(r.Context(), q.Get("exact"), q.Get("fuzzy"), q.Get("set"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, card)
}

// Autocomplete returns card names starting with q.
func (h *CardHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, names)
}

// Random returns a random card, optionally matching q.
func (h *CardHandler) Random(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Random(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, card)
}

// GetCard returns a card by Scryfall id.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.Card(r.Context(), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, card)
}

// TranslateRequest is the body of a translate request.
type TranslateRequest struct {
	Query string `json:"query"`
}

// TranslateResponse carries the Scryfall syntax for a natural language query.
type TranslateResponse struct {
	Query           string `json:"query"`
	TranslatedQuery string `json:"translatedQuery"`
}

// Translate converts natural language to Scryfall syntax.
func (h *CardHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decode(w, r, &req) {
		return
	}
	translated, err := h.svc.Translate(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, TranslateResponse{Query: req.Query, TranslatedQuery: translated})
}

// NaturalSearchRequest is the body of a natural language search.
type NaturalSearchRequest struct {
	Query  string        `json:"query"`
	Filter search.Filter `json:"filter"`
	Sort   search.Sort   `json:"sort"`
	Page   int           `json:"page,omitempty"`
}

// NaturalSearch translates the query and runs it.
func (h *CardHandler) NaturalSearch(w http.ResponseWriter, r *http.Request) {
	var req NaturalSearchRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Natural(r.Context(), service.SearchRequest{
		Query:   req.Query,
		Options: scryfall.SearchOptions{Page: req.Page},
		Filter:  req.Filter,
		Sort:    req.Sort,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, resp)
}
