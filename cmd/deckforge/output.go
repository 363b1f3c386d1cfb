package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newTable returns a bordered table, or a bare two-column layout when no
// headers are given.
func newTable(headers ...string) *table.Table {
	t := table.New().
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if len(headers) == 0 {
		return t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false)
	}
	return t.Border(lipgloss.RoundedBorder()).Headers(headers...)
}

func printEvaluation(w io.Writer, name string, ev deckeval.Evaluation) {
	s := ev.Stats
	fmt.Fprintf(w, "%s\n%s\n\n", name, strings.Repeat("=", len(name)))

	summary := newTable().
		Row("Cards", fmt.Sprintf("%d (%d unique)", s.TotalCards, s.UniqueCards)).
		Row("Lands", fmt.Sprintf("%d (recommended %d)", s.LandCount, s.RecommendedLandCount)).
		Row("Average mana value", fmt.Sprintf("%.2f", s.AverageManaValue)).
		Row("Color identity", identity(s.ColorIdentity))
	fmt.Fprintln(w, summary.Render())

	fmt.Fprintln(w, "\nMana curve")
	for _, b := range deckeval.CurveBuckets {
		n := s.ManaCurve[b]
		fmt.Fprintf(w, "  %-3s %-20s %d\n", b, strings.Repeat("#", min(n, 20)), n)
	}

	fmt.Fprintln(w, "\nTypes")
	types := newTable("Type", "Count")
	for _, c := range deckeval.Categories {
		if n := s.TypeDistribution[c]; n > 0 {
			types.Row(string(c), fmt.Sprint(n))
		}
	}
	fmt.Fprintln(w, types.Render())

	fmt.Fprintln(w, "\nRecommendations")
	if len(ev.Recommendations) == 0 {
		fmt.Fprintln(w, "  none, the deck looks balanced")
	}
	for _, r := range ev.Recommendations {
		fmt.Fprintf(w, "  [%s] %s\n", r.Severity, r.Message)
	}

	if len(ev.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions")
		keys := make([]string, 0, len(ev.Suggestions))
		for k := range ev.Suggestions {
			keys = append(keys, string(k))
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, strings.Join(ev.Suggestions[deckeval.SuggestionCategory(k)], ", "))
		}
	}
}

func identity(colors []string) string {
	if len(colors) == 0 {
		return "colorless"
	}
	return strings.Join(colors, "")
}

// printCards lists up to limit cards; limit 0 prints all of them.
func printCards(w io.Writer, resp *service.SearchResponse, limit int) {
	for _, warn := range resp.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	cards := resp.Cards
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}

	t := newTable("Name", "Cost", "Type", "Rarity", "Price")
	for i := range cards {
		c := &cards[i]
		price := "-"
		if p := c.PriceUSD(); p != nil {
			price = fmt.Sprintf("$%.2f", *p)
		}
		t.Row(c.Name, c.ManaCostOrFace(), c.TypeLineOrFace(), c.Rarity, price)
	}
	fmt.Fprintln(w, t.Render())

	more := ""
	if resp.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(w, "\n%d shown of %d total%s\n", len(cards), resp.TotalCards, more)
}

func printBackups(w io.Writer, backups []storage.BackupInfo) {
	if len(backups) == 0 {
		fmt.Fprintln(w, "no backups")
		return
	}
	t := newTable("Name", "Size", "Modified", "Checksum")
	for _, b := range backups {
		t.Row(b.Name, fmt.Sprint(b.Size), b.ModTime.Format("2006-01-02 15:04"), fmt.Sprintf("%.12s", b.Checksum))
	}
	fmt.Fprintln(w, t.Render())
}
