package deck

import (
	"slices"

	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

// CardFromScryfall copies the fields a deck keeps from a Scryfall card.
// Count is left at zero; AddCard sets it.
func CardFromScryfall(c *scryfall.Card) Card {
	colors := slices.Clone(c.ColorsOrFace())
	if colors == nil {
		colors = []string{}
	}
	identity := slices.Clone(c.ColorIdentity)
	if identity == nil {
		identity = []string{}
	}
	typeLine := c.TypeLineOrFace()

	return Card{
		ID:              c.ID,
		Name:            c.Name,
		Category:        CategoryFor(typeLine),
		TypeLine:        typeLine,
		ManaCost:        c.ManaCostOrFace(),
		ManaValue:       c.CMC,
		Colors:          colors,
		ColorIdentity:   identity,
		Rarity:          c.Rarity,
		SetCode:         c.SetCode,
		CollectorNumber: c.CollectorNumber,
		PriceUSD:        c.PriceUSD(),
		ImageURI:        c.ImageURL(),
	}
}
