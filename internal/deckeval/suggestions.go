package deckeval

var basicLands = map[string]string{
	White:     "Plains",
	Blue:      "Island",
	Black:     "Swamp",
	Red:       "Mountain",
	Green:     "Forest",
	Colorless: "Wastes",
}

var lowCostByColor = map[string][]string{
	White: {"Swords to Plowshares", "Path to Exile"},
	Blue:  {"Counterspell", "Brainstorm"},
	Black: {"Fatal Push", "Thoughtseize"},
	Red:   {"Lightning Bolt", "Ragavan, Nimble Pilferer"},
	Green: {"Llanowar Elves", "Birds of Paradise"},
}

var colorlessStaples = []string{"Sol Ring", "Arcane Signet"}

var creatureHintByColor = map[string]string{
	White: "Protection or hatebear creatures",
	Blue:  "Flash creatures with ETB effects",
	Black: "Creatures with death triggers",
	Red:   "Aggressive creatures with haste",
	Green: "Mana dorks or ramp creatures",
}

// GenerateSuggestions maps fired recommendations to candidate cards. A
// category is present only when its recommendation fired. The result is
// never nil.
func GenerateSuggestions(stats DeckStats, recs []Recommendation) Suggestions {
	out := Suggestions{}

	for _, rec := range recs {
		switch rec.Code {
		case CodeLandAdd:
			if lands := landSuggestions(stats.ColorIdentity); len(lands) > 0 {
				out[SuggestLands] = lands
			}
		case CodeCurveThinEarly:
			out[SuggestLowCostCards] = lowCostSuggestions(stats.ColorIdentity)
		case CodeCreatureDensity:
			out[SuggestCreatures] = creatureSuggestions(stats)
		}
	}

	return out
}

// landSuggestions returns nothing for an empty identity. Colorless decks
// that need lands get no advice here.
func landSuggestions(identity []string) []string {
	switch {
	case len(identity) > 1:
		lands := []string{"Dual lands appropriate for your colors"}
		if len(identity) >= 3 {
			lands = append(lands, "Triome lands", "Command Tower")
		}
		return append(lands, "Fetch lands", "Shock lands")
	case len(identity) == 1:
		basic, ok := basicLands[identity[0]]
		if !ok {
			basic = "Basic lands"
		}
		return []string{basic, "Utility lands"}
	default:
		return nil
	}
}

func lowCostSuggestions(identity []string) []string {
	var cards []string
	for _, c := range identity {
		cards = append(cards, lowCostByColor[c]...)
	}
	return append(cards, colorlessStaples...)
}

func creatureSuggestions(stats DeckStats) []string {
	var hints []string
	if stats.AverageManaValue > 3.5 {
		hints = []string{"Card draw creatures", "Utility creatures with ETB effects"}
	} else {
		hints = []string{"Efficient low-cost creatures", "Creatures with evasion"}
	}
	for _, c := range stats.ColorIdentity {
		if hint, ok := creatureHintByColor[c]; ok {
			hints = append(hints, hint)
		}
	}
	return hints
}
