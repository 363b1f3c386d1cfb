package events

import "github.com/ramonehamilton/mtg-deckforge/internal/deckeval"

// Event types.
const (
	DeckCreated = "deck:created"
	DeckUpdated = "deck:updated"
	DeckDeleted = "deck:deleted"
)

// DeckCreatedEvent is the payload for deck:created events.
type DeckCreatedEvent struct {
	DeckID string `json:"deckId"`
	Name   string `json:"name"`
	Format string `json:"format"`
}

// DeckUpdatedEvent is the payload for deck:updated events.
// Stats is recomputed after every change so clients can redraw without a fetch.
type DeckUpdatedEvent struct {
	DeckID     string             `json:"deckId"`
	Name       string             `json:"name"`
	TotalCards int                `json:"totalCards"`
	Stats      deckeval.DeckStats `json:"stats"`
}

// DeckDeletedEvent is the payload for deck:deleted events.
type DeckDeletedEvent struct {
	DeckID string `json:"deckId"`
}
