// Package purchase builds TCGplayer buy links and rough deck price estimates.
package purchase

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
)

// MassEntryBase is TCGplayer's mass entry page.
const MassEntryBase = "https://www.tcgplayer.com/massentry"

// Fallback per-copy prices by rarity, used when a card has no market price.
var rarityPrice = map[string]float64{
	"common":   0.25,
	"uncommon": 0.50,
	"rare":     2,
	"mythic":   5,
}

const defaultPrice = 0.25

// Quote is the purchase view of a deck.
type Quote struct {
	MassEntryURL   string  `json:"massEntryUrl"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	MarketPriced   int     `json:"marketPriced"` // entries priced from Scryfall
	RarityPriced   int     `json:"rarityPriced"` // entries priced by rarity fallback
}

// QuoteDeck returns the mass entry link and price estimate for d.
func QuoteDeck(d *deck.Deck, affiliateID string) Quote {
	q := Quote{MassEntryURL: MassEntryURL(d.Cards, d.Name, affiliateID)}

	total := 0.0
	for _, c := range d.Cards {
		price, market := CardPrice(c)
		if market {
			q.MarketPriced++
		} else {
			q.RarityPriced++
		}
		total += price * float64(c.Count)
	}
	q.EstimatedPrice = roundCents(total)
	return q
}

// EstimatePrice sums per-copy prices over every card, rounded to cents.
func EstimatePrice(cards []deck.Card) float64 {
	total := 0.0
	for _, c := range cards {
		price, _ := CardPrice(c)
		total += price * float64(c.Count)
	}
	return roundCents(total)
}

// CardPrice returns the per-copy price and whether it came from market data.
func CardPrice(c deck.Card) (float64, bool) {
	if c.PriceUSD != nil && *c.PriceUSD >= 0 {
		return *c.PriceUSD, true
	}
	if p, ok := rarityPrice[strings.ToLower(c.Rarity)]; ok {
		return p, false
	}
	return defaultPrice, false
}

// MassEntryURL lists "count name" entries joined by "||" in TCGplayer's
// mass entry format. Zero-count entries are skipped.
func MassEntryURL(cards []deck.Card, deckName, affiliateID string) string {
	entries := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Count <= 0 {
			continue
		}
		entries = append(entries, strconv.Itoa(c.Count)+" "+c.Name)
	}

	aff := encode(affiliateID)
	var b strings.Builder
	b.WriteString(MassEntryBase)
	b.WriteString("?productline=Magic&utm_campaign=affiliate&utm_medium=api")
	b.WriteString("&utm_source=" + aff)
	b.WriteString("&c=" + encode(strings.Join(entries, "||")))
	b.WriteString("&partner=" + aff)
	b.WriteString("&utm_term=" + encode(deckName))
	return b.String()
}

// encode escapes a query component with spaces as %20.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
