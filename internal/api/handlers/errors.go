package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/api/response"
	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckio"
	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
	"github.com/ramonehamilton/mtg-deckforge/internal/translate"
)

var errInvalidBody = errors.New("invalid request body")

// writeError maps service and upstream errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, deck.ErrInvalid),
		errors.Is(err, translate.ErrEmptyQuery),
		errors.Is(err, advisor.ErrEmptyDeck),
		errors.Is(err, deckio.ErrEmptyInput),
		errors.Is(err, deckio.ErrNoCards),
		scryfall.IsBadQuery(err):
		response.BadRequest(w, err)

	case errors.Is(err, deck.ErrNotFound),
		errors.Is(err, service.ErrCardNotInDeck),
		scryfall.IsNotFound(err):
		response.NotFound(w, err)

	case errors.Is(err, deck.ErrAlreadyExists):
		response.Conflict(w, err)

	case scryfall.IsRateLimited(err):
		response.TooManyRequests(w, err)

	case errors.Is(err, llm.ErrNotConfigured):
		response.ServiceUnavailable(w, err)

	case errors.Is(err, translate.ErrEmptyTranslation),
		errors.Is(err, advisor.ErrEmptyAnalysis):
		response.BadGateway(w, err)

	default:
		response.InternalError(w, err)
	}
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, errInvalidBody)
		return false
	}
	return true
}
