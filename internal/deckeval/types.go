// Package deckeval computes deck statistics, advisory recommendations and
// card suggestions from a deck's card list.
//
// Every function in this package is pure: no I/O, no shared state, and the
// same input always yields a structurally identical result. Callers may run
// evaluations concurrently without coordination.
package deckeval

// OwnedCard is one card entry as it appears in a deck.
type OwnedCard struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	TypeLine      string   `json:"typeLine"`
	ManaValue     float64  `json:"manaValue"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"colorIdentity"`
}

// Category is a card type bucket used by the type distribution.
type Category string

const (
	CategoryCreature     Category = "Creature"
	CategoryInstant      Category = "Instant"
	CategorySorcery      Category = "Sorcery"
	CategoryArtifact     Category = "Artifact"
	CategoryEnchantment  Category = "Enchantment"
	CategoryPlaneswalker Category = "Planeswalker"
	CategoryLand         Category = "Land"
	CategoryOther        Category = "Other"
)

// Categories lists every category in type-distribution order.
var Categories = []Category{
	CategoryCreature,
	CategoryInstant,
	CategorySorcery,
	CategoryArtifact,
	CategoryEnchantment,
	CategoryPlaneswalker,
	CategoryLand,
	CategoryOther,
}

// Color codes. Colorless is only a distribution bucket, never a card color.
const (
	White     = "W"
	Blue      = "U"
	Black     = "B"
	Red       = "R"
	Green     = "G"
	Colorless = "C"
)

// ColorBuckets lists the color distribution keys in WUBRG order followed by colorless.
var ColorBuckets = []string{White, Blue, Black, Red, Green, Colorless}

// CurveBuckets lists the mana curve keys in ascending order.
var CurveBuckets = []string{"0", "1", "2", "3", "4", "5", "6", "7+"}

// DeckStats is an immutable snapshot of aggregate deck statistics.
// A new snapshot is computed for every evaluation.
type DeckStats struct {
	TotalCards           int              `json:"totalCards"`
	UniqueCards          int              `json:"uniqueCards"`
	AverageManaValue     float64          `json:"averageManaValue"`
	ManaCurve            map[string]int   `json:"manaCurve"`
	ColorDistribution    map[string]int   `json:"colorDistribution"`
	TypeDistribution     map[Category]int `json:"typeDistribution"`
	LandCount            int              `json:"landCount"`
	NonLandCount         int              `json:"nonLandCount"`
	RecommendedLandCount int              `json:"recommendedLandCount"`
	ColorIdentity        []string         `json:"colorIdentity"`
}

// CurveTotal returns the number of non-land cards across all curve buckets.
func (s DeckStats) CurveTotal() int {
	total := 0
	for _, n := range s.ManaCurve {
		total += n
	}
	return total
}

// Kind groups recommendations by the aspect of the deck they address.
type Kind string

const (
	KindLand    Kind = "land"
	KindCurve   Kind = "curve"
	KindBalance Kind = "balance"
	KindGeneral Kind = "general"
)

// Severity is the urgency of a recommendation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities from least (1) to most (3) urgent. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// Code identifies which check produced a recommendation.
type Code string

const (
	CodeLandAdd         Code = "land_add"
	CodeLandRemove      Code = "land_remove"
	CodeCurveTopHeavy   Code = "curve_top_heavy"
	CodeCurveThinEarly  Code = "curve_thin_early"
	CodeColorImbalance  Code = "color_imbalance"
	CodeCreatureDensity Code = "creature_density"
)

// Recommendation is a single advisory about the deck.
type Recommendation struct {
	Kind     Kind     `json:"kind"`
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Details  string   `json:"details,omitempty"`

	// Dominant and Weak are only set for color imbalance.
	Dominant []string `json:"dominant,omitempty"`
	Weak     []string `json:"weak,omitempty"`
}

// SuggestionCategory names a group of suggestions.
type SuggestionCategory string

const (
	SuggestLands        SuggestionCategory = "lands"
	SuggestLowCostCards SuggestionCategory = "low_cost_cards"
	SuggestCreatures    SuggestionCategory = "creatures"
)

// Suggestions maps a category to candidate card names or card archetypes.
type Suggestions map[SuggestionCategory][]string

// Evaluation bundles the three derived views of a deck.
type Evaluation struct {
	Stats           DeckStats        `json:"stats"`
	Recommendations []Recommendation `json:"recommendations"`
	Suggestions     Suggestions      `json:"suggestions"`
}

// Evaluate computes stats, recommendations and suggestions in one call.
func Evaluate(cards []OwnedCard) Evaluation {
	stats := ComputeStats(cards)
	recs := GenerateRecommendations(stats)
	return Evaluation{
		Stats:           stats,
		Recommendations: recs,
		Suggestions:     GenerateSuggestions(stats, recs),
	}
}
