// Package search narrows and orders card search results after they come
// back from Scryfall.
package search

import (
	"cmp"
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
)

// Filter keeps cards matching every non-empty criterion. Within a
// criterion any listed value may match.
type Filter struct {
	Colors   []string `json:"colors,omitempty"`   // W U B R G, or C for colorless
	Rarities []string `json:"rarities,omitempty"` // common, uncommon, rare, mythic
	Types    []string `json:"types,omitempty"`    // substrings of the type line
}

// IsZero reports whether the filter keeps every card.
func (f Filter) IsZero() bool {
	return len(f.Colors) == 0 && len(f.Rarities) == 0 && len(f.Types) == 0
}

// Match reports whether card passes the filter.
func (f Filter) Match(card *scryfall.Card) bool {
	if len(f.Colors) > 0 && !matchColors(f.Colors, card.ColorsOrFace()) {
		return false
	}
	if len(f.Rarities) > 0 && !containsFold(f.Rarities, card.Rarity) {
		return false
	}
	if len(f.Types) > 0 {
		typeLine := strings.ToLower(card.TypeLineOrFace())
		if !slices.ContainsFunc(f.Types, func(t string) bool {
			return strings.Contains(typeLine, strings.ToLower(t))
		}) {
			return false
		}
	}
	return true
}

func matchColors(want, have []string) bool {
	for _, c := range want {
		if strings.EqualFold(c, "C") && len(have) == 0 {
			return true
		}
		if containsFold(have, c) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}

// Field is a sort key.
type Field string

const (
	FieldName     Field = "name"
	FieldCMC      Field = "cmc"
	FieldColor    Field = "color"
	FieldRarity   Field = "rarity"
	FieldReleased Field = "released"
	FieldUSD      Field = "usd"
	FieldEDHREC   Field = "edhrec"
)

// Sort orders results. An empty Field leaves Scryfall's order untouched.
type Sort struct {
	Field Field  `json:"field,omitempty"`
	Dir   string `json:"dir,omitempty"` // asc (default) or desc
}

var rarityRank = map[string]int{
	"common":   0,
	"uncommon": 1,
	"rare":     2,
	"mythic":   3,
}

// Apply filters cards and sorts the survivors. The input slice is not modified.
// Sorting is stable, so cards that compare equal keep their incoming order.
func Apply(cards []scryfall.Card, f Filter, s Sort) []scryfall.Card {
	out := make([]scryfall.Card, 0, len(cards))
	for i := range cards {
		if f.Match(&cards[i]) {
			out = append(out, cards[i])
		}
	}

	if s.Field == "" {
		return out
	}

	compare := comparator(s.Field)
	desc := strings.EqualFold(s.Dir, "desc")
	slices.SortStableFunc(out, func(a, b scryfall.Card) int {
		c := compare(&a, &b)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func comparator(field Field) func(a, b *scryfall.Card) int {
	switch field {
	case FieldCMC:
		return func(a, b *scryfall.Card) int { return cmp.Compare(a.CMC, b.CMC) }
	case FieldColor:
		return func(a, b *scryfall.Card) int {
			return cmp.Compare(len(a.ColorsOrFace()), len(b.ColorsOrFace()))
		}
	case FieldRarity:
		return func(a, b *scryfall.Card) int {
			return cmp.Compare(rarityRank[a.Rarity], rarityRank[b.Rarity])
		}
	case FieldReleased:
		return func(a, b *scryfall.Card) int { return cmp.Compare(a.ReleasedAt, b.ReleasedAt) }
	case FieldUSD:
		return func(a, b *scryfall.Card) int { return cmp.Compare(usd(a), usd(b)) }
	case FieldEDHREC:
		return func(a, b *scryfall.Card) int { return cmp.Compare(edhrec(a), edhrec(b)) }
	default:
		return func(a, b *scryfall.Card) int { return cmp.Compare(a.Name, b.Name) }
	}
}

func usd(c *scryfall.Card) float64 {
	if p := c.PriceUSD(); p != nil {
		return *p
	}
	return 0
}

func edhrec(c *scryfall.Card) int {
	if c.EDHRECRank == nil || *c.EDHRECRank == 0 {
		return math.MaxInt
	}
	return *c.EDHRECRank
}

// FromQuery reads colors, rarity, type, sort and dir from URL parameters.
// List values are comma separated.
func FromQuery(q url.Values) (Filter, Sort) {
	f := Filter{
		Colors:   splitList(q.Get("colors")),
		Rarities: splitList(q.Get("rarity")),
		Types:    splitList(q.Get("type")),
	}
	s := Sort{
		Field: Field(strings.ToLower(strings.TrimSpace(q.Get("sort")))),
		Dir:   strings.ToLower(strings.TrimSpace(q.Get("dir"))),
	}
	return f, s
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
