package deckeval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthyStats returns a snapshot that fires no recommendation. Tests tweak
// single fields from here.
func healthyStats() DeckStats {
	return DeckStats{
		TotalCards:           60,
		UniqueCards:          20,
		AverageManaValue:     2.8,
		ManaCurve:            map[string]int{"0": 0, "1": 8, "2": 12, "3": 9, "4": 6, "5": 2, "6": 0, "7+": 0},
		ColorDistribution:    map[string]int{White: 0, Blue: 0, Black: 0, Red: 20, Green: 18, Colorless: 2},
		TypeDistribution:     map[Category]int{CategoryCreature: 20, CategoryInstant: 10, CategoryLand: 23, CategorySorcery: 7},
		LandCount:            23,
		NonLandCount:         37,
		RecommendedLandCount: 23,
		ColorIdentity:        []string{Green, Red},
	}
}

func findCode(recs []Recommendation, code Code) (Recommendation, bool) {
	for _, r := range recs {
		if r.Code == code {
			return r, true
		}
	}
	return Recommendation{}, false
}

func TestGenerateRecommendations_Healthy(t *testing.T) {
	recs := GenerateRecommendations(healthyStats())
	require.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGenerateRecommendations_LandBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		landCount   int
		wantFire    bool
		wantCode    Code
		wantSev     Severity
		wantMessage string
	}{
		{"delta two", 21, false, "", "", ""},
		{"delta three", 20, true, CodeLandAdd, SeverityMedium, "Consider adding 3 more lands"},
		{"delta four", 19, true, CodeLandAdd, SeverityMedium, "Consider adding 4 more lands"},
		{"delta five", 18, true, CodeLandAdd, SeverityHigh, "Consider adding 5 more lands"},
		{"delta minus two", 25, false, "", "", ""},
		{"delta minus three", 26, true, CodeLandRemove, SeverityMedium, "Consider removing 3 lands"},
		{"delta minus six", 29, true, CodeLandRemove, SeverityHigh, "Consider removing 6 lands"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := healthyStats()
			stats.LandCount = tt.landCount

			recs := GenerateRecommendations(stats)

			if !tt.wantFire {
				assert.Empty(t, recs)
				return
			}
			require.Len(t, recs, 1)
			assert.Equal(t, KindLand, recs[0].Kind)
			assert.Equal(t, tt.wantCode, recs[0].Code)
			assert.Equal(t, tt.wantSev, recs[0].Severity)
			assert.Equal(t, tt.wantMessage, recs[0].Message)
			assert.Contains(t, recs[0].Details, "average mana value of 2.80")
		})
	}
}

func TestGenerateRecommendations_FortyCardScenario(t *testing.T) {
	cards := []OwnedCard{
		card("Mountain", 15, "Basic Land — Mountain", 0),
		card("Goblin Guide", 8, "Creature — Goblin Scout", 2, Red),
		card("Lightning Strike", 17, "Instant", 2, Red),
	}

	stats := ComputeStats(cards)
	require.Equal(t, 14, stats.RecommendedLandCount)

	_, fired := findCode(GenerateRecommendations(stats), CodeLandRemove)
	assert.False(t, fired, "delta of -1 must not fire")
}

func TestGenerateRecommendations_Curve(t *testing.T) {
	tests := []struct {
		name     string
		curve    map[string]int
		code     Code
		wantFire bool
		wantSev  Severity
	}{
		{"top heavy at thirty percent", map[string]int{"1": 7, "5": 3}, CodeCurveTopHeavy, false, ""},
		{"top heavy at forty percent", map[string]int{"1": 6, "5": 2, "6": 1, "7+": 1}, CodeCurveTopHeavy, true, SeverityMedium},
		{"top heavy at fifty percent", map[string]int{"2": 5, "6": 5}, CodeCurveTopHeavy, true, SeverityHigh},
		{"early game at twenty five percent", map[string]int{"1": 1, "2": 1, "3": 6}, CodeCurveThinEarly, false, ""},
		{"early game at twenty percent", map[string]int{"1": 2, "3": 8}, CodeCurveThinEarly, true, SeverityMedium},
		{"early game at ten percent", map[string]int{"2": 1, "3": 9}, CodeCurveThinEarly, true, SeverityHigh},
		{"zero drops are not early game", map[string]int{"0": 10}, CodeCurveThinEarly, true, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := healthyStats()
			stats.ManaCurve = tt.curve

			rec, fired := findCode(GenerateRecommendations(stats), tt.code)
			require.Equal(t, tt.wantFire, fired)
			if fired {
				assert.Equal(t, KindCurve, rec.Kind)
				assert.Equal(t, tt.wantSev, rec.Severity)
			}
		})
	}
}

func TestGenerateRecommendations_TopHeavyMessage(t *testing.T) {
	stats := healthyStats()
	stats.ManaCurve = map[string]int{"2": 5, "6": 5}

	rec, fired := findCode(GenerateRecommendations(stats), CodeCurveTopHeavy)
	require.True(t, fired)
	assert.Equal(t, "Your mana curve is top-heavy", rec.Message)
	assert.Contains(t, rec.Details, "50.0%")
}

func TestGenerateRecommendations_ColorImbalance(t *testing.T) {
	stats := healthyStats()
	stats.ColorIdentity = []string{Black, Blue}
	stats.ColorDistribution = map[string]int{Blue: 30, Black: 10}

	rec, fired := findCode(GenerateRecommendations(stats), CodeColorImbalance)
	require.True(t, fired)
	assert.Equal(t, KindBalance, rec.Kind)
	assert.Equal(t, SeverityMedium, rec.Severity)
	assert.Equal(t, "Your color balance may need adjustment", rec.Message)
	assert.Equal(t, []string{Blue}, rec.Dominant)
	assert.Equal(t, []string{Black}, rec.Weak)
	assert.Contains(t, rec.Details, "more U cards than B cards")
}

func TestGenerateRecommendations_ColorBalanceEdges(t *testing.T) {
	tests := []struct {
		name     string
		identity []string
		dist     map[string]int
		wantFire bool
	}{
		{"exactly double", []string{Black, Blue}, map[string]int{Blue: 20, Black: 10}, false},
		{"weak color absent", []string{Black, Blue}, map[string]int{Blue: 30}, false},
		{"mono color", []string{Blue}, map[string]int{Blue: 30}, false},
		{"three colors", []string{Green, Red, White}, map[string]int{Green: 25, Red: 12, White: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := healthyStats()
			stats.ColorIdentity = tt.identity
			stats.ColorDistribution = tt.dist

			_, fired := findCode(GenerateRecommendations(stats), CodeColorImbalance)
			assert.Equal(t, tt.wantFire, fired)
		})
	}
}

func TestGenerateRecommendations_ColorTiesNameEveryColor(t *testing.T) {
	stats := healthyStats()
	stats.ColorIdentity = []string{Black, Green, Red, Blue}
	stats.ColorDistribution = map[string]int{Black: 20, Green: 20, Red: 4, Blue: 4}

	rec, fired := findCode(GenerateRecommendations(stats), CodeColorImbalance)
	require.True(t, fired)
	assert.Equal(t, []string{Black, Green}, rec.Dominant)
	assert.Equal(t, []string{Red, Blue}, rec.Weak)
	assert.Contains(t, rec.Details, "more B/G cards than R/U cards")
}

func TestGenerateRecommendations_CreatureDensity(t *testing.T) {
	tests := []struct {
		name      string
		creatures int
		nonLand   int
		wantFire  bool
		wantSev   Severity
	}{
		{"twenty percent", 5, 25, false, ""},
		{"sixteen percent", 4, 25, true, SeverityMedium},
		{"eight percent", 2, 25, true, SeverityHigh},
		{"no nonland cards", 0, 0, true, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := healthyStats()
			stats.TypeDistribution = map[Category]int{CategoryCreature: tt.creatures}
			stats.NonLandCount = tt.nonLand

			rec, fired := findCode(GenerateRecommendations(stats), CodeCreatureDensity)
			require.Equal(t, tt.wantFire, fired)
			if fired {
				assert.Equal(t, KindGeneral, rec.Kind)
				assert.Equal(t, tt.wantSev, rec.Severity)
				assert.Equal(t, "Your deck may need more creatures", rec.Message)
			}
		})
	}
}

func TestGenerateRecommendations_EmptyDeck(t *testing.T) {
	recs := GenerateRecommendations(ComputeStats(nil))

	require.Len(t, recs, 2)
	assert.Equal(t, CodeCurveThinEarly, recs[0].Code)
	assert.Equal(t, SeverityHigh, recs[0].Severity)
	assert.Equal(t, CodeCreatureDensity, recs[1].Code)
	assert.Equal(t, SeverityHigh, recs[1].Severity)
}

func TestGenerateRecommendations_CheckOrder(t *testing.T) {
	stats := healthyStats()
	stats.LandCount = 10
	stats.ManaCurve = map[string]int{"3": 2, "5": 8}
	stats.ColorDistribution = map[string]int{Green: 30, Red: 5}
	stats.TypeDistribution = map[Category]int{CategoryCreature: 1}

	recs := GenerateRecommendations(stats)

	codes := make([]Code, 0, len(recs))
	for _, r := range recs {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []Code{
		CodeLandAdd,
		CodeCurveTopHeavy,
		CodeCurveThinEarly,
		CodeColorImbalance,
		CodeCreatureDensity,
	}, codes)
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Equal(t, 0, Severity("urgent").Rank())
}
