package deckeval

import (
	"errors"
	"fmt"
)

// ErrInvalidCard is returned by ValidateCards for entries the engine does not accept.
var ErrInvalidCard = errors.New("invalid card entry")

var validColors = map[string]bool{White: true, Blue: true, Black: true, Red: true, Green: true}

// ValidateCards checks the input rules Evaluate relies on: every entry has a
// positive count, and colors and color identity only use W, U, B, R and G.
// Evaluate itself does not check them.
func ValidateCards(cards []OwnedCard) error {
	for i, c := range cards {
		if c.Count < 1 {
			return fmt.Errorf("%w: card %d (%q) has count %d, must be at least 1", ErrInvalidCard, i, c.Name, c.Count)
		}
		for _, col := range c.Colors {
			if !validColors[col] {
				return fmt.Errorf("%w: card %d (%q) has unknown color %q", ErrInvalidCard, i, c.Name, col)
			}
		}
		for _, col := range c.ColorIdentity {
			if !validColors[col] {
				return fmt.Errorf("%w: card %d (%q) has unknown color identity %q", ErrInvalidCard, i, c.Name, col)
			}
		}
	}
	return nil
}
