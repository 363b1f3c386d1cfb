package deckeval

import (
	"fmt"
	"strings"
)

// Thresholds for the recommendation checks.
const (
	landDeltaMedium = 3
	landDeltaHigh   = 5

	topHeavyMedium = 30.0 // % of curve at 5+ mana
	topHeavyHigh   = 40.0

	thinEarlyMedium = 25.0 // % of curve at 1-2 mana
	thinEarlyHigh   = 15.0

	creatureMedium = 20.0 // % of non-land cards
	creatureHigh   = 10.0
)

// GenerateRecommendations derives advisories from a stats snapshot. Checks
// run in a fixed order (lands, top-heavy curve, early game, color balance,
// creature count) and the result keeps that order.
func GenerateRecommendations(stats DeckStats) []Recommendation {
	recs := make([]Recommendation, 0, 5)

	if rec, ok := checkLandCount(stats); ok {
		recs = append(recs, rec)
	}
	if rec, ok := checkTopHeavy(stats); ok {
		recs = append(recs, rec)
	}
	if rec, ok := checkEarlyGame(stats); ok {
		recs = append(recs, rec)
	}
	if rec, ok := checkColorBalance(stats); ok {
		recs = append(recs, rec)
	}
	if rec, ok := checkCreatureDensity(stats); ok {
		recs = append(recs, rec)
	}

	return recs
}

func checkLandCount(stats DeckStats) (Recommendation, bool) {
	delta := stats.RecommendedLandCount - stats.LandCount
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	if abs < landDeltaMedium {
		return Recommendation{}, false
	}

	rec := Recommendation{
		Kind:     KindLand,
		Severity: SeverityMedium,
		Details: fmt.Sprintf("Based on your average mana value of %.2f, we recommend around %d lands. You currently have %d.",
			stats.AverageManaValue, stats.RecommendedLandCount, stats.LandCount),
	}
	if abs >= landDeltaHigh {
		rec.Severity = SeverityHigh
	}

	if delta > 0 {
		rec.Code = CodeLandAdd
		rec.Message = fmt.Sprintf("Consider adding %d more lands", abs)
	} else {
		rec.Code = CodeLandRemove
		rec.Message = fmt.Sprintf("Consider removing %d lands", abs)
	}
	return rec, true
}

func checkTopHeavy(stats DeckStats) (Recommendation, bool) {
	high := stats.ManaCurve["5"] + stats.ManaCurve["6"] + stats.ManaCurve["7+"]
	pct := percent(high, stats.CurveTotal())
	if pct <= topHeavyMedium {
		return Recommendation{}, false
	}

	severity := SeverityMedium
	if pct > topHeavyHigh {
		severity = SeverityHigh
	}
	return Recommendation{
		Kind:     KindCurve,
		Code:     CodeCurveTopHeavy,
		Severity: severity,
		Message:  "Your mana curve is top-heavy",
		Details: fmt.Sprintf("%.1f%% of your non-land cards cost 5 or more mana. Consider adding more low-cost cards to improve early game presence.",
			pct),
	}, true
}

func checkEarlyGame(stats DeckStats) (Recommendation, bool) {
	low := stats.ManaCurve["1"] + stats.ManaCurve["2"]
	pct := percent(low, stats.CurveTotal())
	if pct >= thinEarlyMedium {
		return Recommendation{}, false
	}

	severity := SeverityMedium
	if pct < thinEarlyHigh {
		severity = SeverityHigh
	}
	return Recommendation{
		Kind:     KindCurve,
		Code:     CodeCurveThinEarly,
		Severity: severity,
		Message:  "You may lack early game plays",
		Details: fmt.Sprintf("Only %.1f%% of your non-land cards cost 1-2 mana. Consider adding more low-cost cards to improve your early game.",
			pct),
	}, true
}

func checkColorBalance(stats DeckStats) (Recommendation, bool) {
	if len(stats.ColorIdentity) <= 1 {
		return Recommendation{}, false
	}

	maxCount := stats.ColorDistribution[stats.ColorIdentity[0]]
	minCount := maxCount
	for _, c := range stats.ColorIdentity[1:] {
		n := stats.ColorDistribution[c]
		if n > maxCount {
			maxCount = n
		}
		if n < minCount {
			minCount = n
		}
	}

	if minCount <= 0 || maxCount <= 2*minCount {
		return Recommendation{}, false
	}

	var dominant, weak []string
	for _, c := range stats.ColorIdentity {
		switch stats.ColorDistribution[c] {
		case maxCount:
			dominant = append(dominant, c)
		case minCount:
			weak = append(weak, c)
		}
	}

	return Recommendation{
		Kind:     KindBalance,
		Code:     CodeColorImbalance,
		Severity: SeverityMedium,
		Message:  "Your color balance may need adjustment",
		Details: fmt.Sprintf("You have significantly more %s cards than %s cards. Consider balancing your colors or adjusting your mana base accordingly.",
			strings.Join(dominant, "/"), strings.Join(weak, "/")),
		Dominant: dominant,
		Weak:     weak,
	}, true
}

func checkCreatureDensity(stats DeckStats) (Recommendation, bool) {
	pct := percent(stats.TypeDistribution[CategoryCreature], stats.NonLandCount)
	if pct >= creatureMedium {
		return Recommendation{}, false
	}

	severity := SeverityMedium
	if pct < creatureHigh {
		severity = SeverityHigh
	}
	return Recommendation{
		Kind:     KindGeneral,
		Code:     CodeCreatureDensity,
		Severity: severity,
		Message:  "Your deck may need more creatures",
		Details: fmt.Sprintf("Only %.1f%% of your non-land cards are creatures. Most decks benefit from having more creatures to establish board presence.",
			pct),
	}, true
}

// percent returns part/whole*100, or 0 when whole is zero.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
