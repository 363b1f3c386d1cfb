package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/api/response"
	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckio"
	"github.com/ramonehamilton/mtg-deckforge/internal/purchase"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
)

// DeckService is what the deck handlers need.
type DeckService interface {
	Create(ctx context.Context, in service.CreateDeckInput) (*deck.Deck, error)
	Get(ctx context.Context, id string) (*deck.Deck, error)
	List(ctx context.Context) ([]service.DeckSummary, error)
	Update(ctx context.Context, id string, in service.UpdateDeckInput) (*deck.Deck, error)
	Delete(ctx context.Context, id string) error
	AddCard(ctx context.Context, id string, in service.AddCardInput) (*deck.Deck, error)
	SetCardCount(ctx context.Context, id, cardID string, count int) (*deck.Deck, error)
	RemoveCard(ctx context.Context, id, cardID string) (*deck.Deck, error)
	Evaluate(ctx context.Context, id string) (deckeval.Evaluation, error)
	EvaluateCards(cards []deckeval.OwnedCard) (deckeval.Evaluation, error)
	Analyze(ctx context.Context, id string) (string, error)
	AnalyzeCards(ctx context.Context, req advisor.Request) (string, error)
	Export(ctx context.Context, id, format string) (*deckio.Export, error)
	Purchase(ctx context.Context, id string) (purchase.Quote, error)
	Import(ctx context.Context, in service.ImportInput) (*deckio.ImportResult, error)
	RenderCharts(ctx context.Context, id string, w io.Writer) error
}

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	svc DeckService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(svc DeckService) *DeckHandler {
	return &DeckHandler{svc: svc}
}

// GetDecks returns all decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, decks)
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req service.CreateDeckInput
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, d)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, d)
}

// UpdateDeck changes deck metadata.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateDeckInput
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Update(r.Context(), chi.URLParam(r, "deckID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, d)
}

// DeleteDeck deletes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// AddCard adds one copy of a card by id or name.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req service.AddCardInput
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.AddCard(r.Context(), chi.URLParam(r, "deckID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, d)
}

// SetCardCountRequest is the body of a set-count request.
type SetCardCountRequest struct {
	Count *int `json:"count"`
}

// SetCardCount sets how many copies of a card the deck holds.
func (h *DeckHandler) SetCardCount(w http.ResponseWriter, r *http.Request) {
	var req SetCardCountRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Count == nil {
		response.BadRequest(w, errors.New("count is required"))
		return
	}
	d, err := h.svc.SetCardCount(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"), *req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, d)
}

// RemoveCard removes one copy of a card.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.RemoveCard(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, d)
}

// GetEvaluation returns stats, recommendations and suggestions.
func (h *DeckHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	eval, err := h.svc.Evaluate(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, eval)
}

// EvaluateRequest is an unsaved card list.
type EvaluateRequest struct {
	Cards []deckeval.OwnedCard `json:"cards"`
}

// Evaluate evaluates a card list without storing it.
func (h *DeckHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decode(w, r, &req) {
		return
	}
	eval, err := h.svc.EvaluateCards(req.Cards)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, eval)
}

// AnalysisResponse carries the model's report.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// Analyze runs the language model report on an unsaved deck.
func (h *DeckHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req advisor.Request
	if !decode(w, r, &req) {
		return
	}
	report, err := h.svc.AnalyzeCards(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, AnalysisResponse{Analysis: report})
}

// AnalyzeDeck runs the language model report on a stored deck.
func (h *DeckHandler) AnalyzeDeck(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Analyze(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, AnalysisResponse{Analysis: report})
}

// GetCharts serves the deck's charts as a standalone HTML page.
func (h *DeckHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.RenderCharts(r.Context(), chi.URLParam(r, "deckID"), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ExportDeck renders the deck list. With download=true the list is sent as
// a text attachment instead of a JSON envelope.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	exp, err := h.svc.Export(r.Context(), chi.URLParam(r, "deckID"), r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exp.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, exp.Content)
		return
	}
	response.Success(w, exp)
}

// GetPurchase returns the TCGplayer link and price estimate.
func (h *DeckHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.Purchase(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, quote)
}

// ImportDeck builds and stores a deck from a pasted list.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req service.ImportInput
	if !decode(w, r, &req) {
		return
	}
	result, err := h.svc.Import(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, result)
}
