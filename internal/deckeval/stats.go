package deckeval

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// classificationOrder is checked top to bottom against the lower-cased type
// line; the first keyword found wins. "Artifact Creature" is a Creature and
// "Artifact Land" is an Artifact. Planeswalker sits directly after creature,
// so a type line that also names an instant, sorcery, artifact or enchantment
// still counts as a Planeswalker.
var classificationOrder = []struct {
	keyword  string
	category Category
}{
	{"creature", CategoryCreature},
	{"planeswalker", CategoryPlaneswalker},
	{"instant", CategoryInstant},
	{"sorcery", CategorySorcery},
	{"artifact", CategoryArtifact},
	{"enchantment", CategoryEnchantment},
	{"land", CategoryLand},
}

// Classify returns the single category a type line belongs to.
// Type lines matching no keyword (tokens, emblems, schemes) are Other.
func Classify(typeLine string) Category {
	lower := strings.ToLower(typeLine)
	for _, c := range classificationOrder {
		if strings.Contains(lower, c.keyword) {
			return c.category
		}
	}
	return CategoryOther
}

// landBands maps average mana value upper bounds (exclusive) to the percentage
// of the deck that should be lands.
var landBands = []struct {
	below   float64
	percent int
}{
	{1.5, 33},
	{2.5, 36},
	{3.5, 38},
	{4.5, 40},
}

const topLandPercent = 42

// LandPercent returns the recommended land percentage for an average mana value.
func LandPercent(averageManaValue float64) int {
	for _, band := range landBands {
		if averageManaValue < band.below {
			return band.percent
		}
	}
	return topLandPercent
}

// RecommendedLands rounds totalCards*percent/100 half-up. Integer arithmetic
// keeps ties exact (25 cards at 42% is 10.5 and rounds to 11).
func RecommendedLands(totalCards int, averageManaValue float64) int {
	if totalCards <= 0 {
		return 0
	}
	return (totalCards*LandPercent(averageManaValue) + 50) / 100
}

// CurveBucket returns the mana curve key for a mana value.
func CurveBucket(manaValue float64) string {
	if math.IsNaN(manaValue) || manaValue < 0 {
		return "0"
	}
	if manaValue >= 7 {
		return "7+"
	}
	return strconv.Itoa(int(math.Floor(manaValue)))
}

// ComputeStats aggregates a deck's card list into a fresh DeckStats snapshot.
// An empty list yields zero counts and fully populated, zeroed maps.
func ComputeStats(cards []OwnedCard) DeckStats {
	stats := DeckStats{
		UniqueCards:       len(cards),
		ManaCurve:         make(map[string]int, len(CurveBuckets)),
		ColorDistribution: make(map[string]int, len(ColorBuckets)),
		TypeDistribution:  make(map[Category]int, len(Categories)),
		ColorIdentity:     []string{},
	}
	for _, bucket := range CurveBuckets {
		stats.ManaCurve[bucket] = 0
	}
	for _, color := range ColorBuckets {
		stats.ColorDistribution[color] = 0
	}
	for _, category := range Categories {
		stats.TypeDistribution[category] = 0
	}

	var manaValueSum float64
	identity := make(map[string]struct{})

	for _, card := range cards {
		count := card.Count
		stats.TotalCards += count

		category := Classify(card.TypeLine)
		stats.TypeDistribution[category] += count

		if category == CategoryLand {
			stats.LandCount += count
		} else {
			stats.ManaCurve[CurveBucket(card.ManaValue)] += count
			if !math.IsNaN(card.ManaValue) {
				manaValueSum += card.ManaValue * float64(count)
			}
		}

		addColors(stats.ColorDistribution, card.Colors, count)

		for _, c := range card.ColorIdentity {
			identity[c] = struct{}{}
		}
	}

	stats.NonLandCount = stats.TotalCards - stats.LandCount
	if stats.NonLandCount > 0 {
		stats.AverageManaValue = manaValueSum / float64(stats.NonLandCount)
	}

	for c := range identity {
		stats.ColorIdentity = append(stats.ColorIdentity, c)
	}
	sort.Strings(stats.ColorIdentity)

	stats.RecommendedLandCount = RecommendedLands(stats.TotalCards, stats.AverageManaValue)

	return stats
}

// addColors credits count to every color a card has, or to colorless when it
// has none. Multicolor cards count once per color.
func addColors(dist map[string]int, colors []string, count int) {
	if len(colors) == 0 {
		dist[Colorless] += count
		return
	}
	for _, c := range colors {
		switch c {
		case White, Blue, Black, Red, Green:
			dist[c] += count
		}
	}
}
