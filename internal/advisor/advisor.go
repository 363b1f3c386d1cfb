// Package advisor asks an LLM for a coaching report on a deck.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
)

var (
	// ErrEmptyDeck is returned when the deck has no cards to analyze.
	ErrEmptyDeck = errors.New("deck has no cards")

	// ErrEmptyAnalysis is returned when the model produced no text.
	ErrEmptyAnalysis = errors.New("model returned an empty analysis")
)

const (
	temperature = 0.7
	maxTokens   = 1500
)

const systemPrompt = `You are an expert Magic: The Gathering deck analyst and coach. Your task is to provide detailed, insightful analysis of MTG decks with constructive feedback and specific suggestions for improvement.

Your analysis should include:
1. Overall deck strategy assessment
2. Strengths and weaknesses evaluation
3. Synergy analysis between cards
4. Specific card recommendations (cards to add and remove)
5. Gameplay tips and key interactions to be aware of

Format your response in clear sections with HTML formatting (using <h3>, <p>, <ul>, etc.) for better readability. Be specific, insightful, and constructive in your feedback.`

// Request describes the deck to analyze.
type Request struct {
	Name   string               `json:"name"`
	Format string               `json:"format"`
	Cards  []deckeval.OwnedCard `json:"cards"`
}

// Analyst produces LLM deck reports.
type Analyst struct {
	completer llm.Completer
	logger    *zap.Logger
}

// New creates an Analyst. A nil logger is replaced by a no-op logger.
func New(completer llm.Completer, logger *zap.Logger) *Analyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyst{completer: completer, logger: logger}
}

// Analyze returns an HTML report for the deck.
func (a *Analyst) Analyze(ctx context.Context, req Request) (string, error) {
	cards := nonEmpty(req.Cards)
	if len(cards) == 0 {
		return "", ErrEmptyDeck
	}
	req.Cards = cards

	user := fmt.Sprintf(`Please analyze my %s deck named %q. Here's the deck information:

%s
Please provide a detailed analysis with specific suggestions for improvement. Include cards I should consider adding or removing, and explain why these changes would improve the deck.`,
		req.Format, req.Name, Summary(req))

	out, err := a.completer.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("analyze deck %q: %w", req.Name, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyAnalysis
	}

	a.logger.Debug("deck analyzed",
		zap.String("deck", req.Name),
		zap.Int("cards", len(cards)),
		zap.Int("report_bytes", len(out)))
	return out, nil
}

func nonEmpty(cards []deckeval.OwnedCard) []deckeval.OwnedCard {
	out := make([]deckeval.OwnedCard, 0, len(cards))
	for _, c := range cards {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}

var colorNames = map[string]string{
	deckeval.White:     "White",
	deckeval.Blue:      "Blue",
	deckeval.Black:     "Black",
	deckeval.Red:       "Red",
	deckeval.Green:     "Green",
	deckeval.Colorless: "Colorless",
}

// Summary renders the plain-text deck description sent to the model. It
// includes the engine's own recommendations so the report can build on them.
func Summary(req Request) string {
	stats := deckeval.ComputeStats(req.Cards)

	var b strings.Builder
	fmt.Fprintf(&b, "Deck Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Format: %s\n", req.Format)
	fmt.Fprintf(&b, "Total Cards: %d\n", stats.TotalCards)
	fmt.Fprintf(&b, "Lands: %d (recommended %d)\n", stats.LandCount, stats.RecommendedLandCount)
	fmt.Fprintf(&b, "Average Mana Value: %.2f\n\n", stats.AverageManaValue)

	b.WriteString("Color Distribution:\n")
	for _, color := range deckeval.ColorBuckets {
		if n := stats.ColorDistribution[color]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d cards\n", colorNames[color], n)
		}
	}
	b.WriteString("\n")

	groups := make(map[deckeval.Category][]deckeval.OwnedCard)
	for _, c := range req.Cards {
		cat := deckeval.Classify(c.TypeLine)
		groups[cat] = append(groups[cat], c)
	}
	for _, cat := range deckeval.Categories {
		cards := groups[cat]
		if len(cards) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d):\n", plural(cat), stats.TypeDistribution[cat])
		for _, c := range cards {
			fmt.Fprintf(&b, "%dx %s (%g MV)\n", c.Count, c.Name, c.ManaValue)
		}
		b.WriteString("\n")
	}

	if recs := deckeval.GenerateRecommendations(stats); len(recs) > 0 {
		b.WriteString("Automated Checks:\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "- [%s] %s. %s\n", r.Severity, r.Message, r.Details)
		}
	}

	return b.String()
}

func plural(c deckeval.Category) string {
	switch c {
	case deckeval.CategorySorcery:
		return "Sorceries"
	case deckeval.CategoryOther:
		return "Other"
	default:
		return string(c) + "s"
	}
}
