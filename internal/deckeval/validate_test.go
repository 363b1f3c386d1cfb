package deckeval

import (
	"errors"
	"testing"
)

func TestValidateCards(t *testing.T) {
	tests := []struct {
		name    string
		cards   []OwnedCard
		wantErr bool
	}{
		{"empty list", nil, false},
		{"valid", []OwnedCard{card("Bolt", 4, "Instant", 1, Red), card("Wastes", 1, "Basic Land", 0)}, false},
		{"zero count", []OwnedCard{card("Bolt", 0, "Instant", 1, Red)}, true},
		{"negative count", []OwnedCard{card("Bolt", -3, "Instant", 1, Red)}, true},
		{"unknown color", []OwnedCard{card("Thing", 1, "Creature", 2, "X")}, true},
		{"colorless is not a card color", []OwnedCard{card("Thing", 1, "Artifact", 2, Colorless)}, true},
		{"unknown identity", []OwnedCard{{Name: "Odd", Count: 1, TypeLine: "Land", ColorIdentity: []string{"P"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCards(tt.cards)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCard) {
					t.Errorf("ValidateCards() = %v, want ErrInvalidCard", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateCards() = %v, want nil", err)
			}
		})
	}
}
