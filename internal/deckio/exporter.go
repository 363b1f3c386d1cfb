package deckio

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
)

// Format is an export format.
type Format string

const (
	FormatArena     Format = "arena"     // MTG Arena: "1 Sol Ring (C16) 272"
	FormatPlainText Format = "plaintext" // "4x Card Name" grouped by category
	FormatTCGPlayer Format = "tcgplayer" // TCGplayer mass entry: "4 Card Name"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatArena, FormatPlainText, FormatTCGPlayer}

// ParseFormat validates a format name. Empty means arena.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatArena, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Export is a rendered deck list.
type Export struct {
	Content  string `json:"content"`
	Format   Format `json:"format"`
	Filename string `json:"filename"`
}

// ExportDeck renders d in format f.
func ExportDeck(d *deck.Deck, f Format) (*Export, error) {
	if d == nil {
		return nil, fmt.Errorf("deck is nil")
	}

	var content, filename string
	switch f {
	case FormatArena:
		content = exportArena(d)
		filename = sanitizeFilename(d.Name) + ".txt"
	case FormatPlainText:
		content = exportPlainText(d)
		filename = sanitizeFilename(d.Name) + ".txt"
	case FormatTCGPlayer:
		content = exportTCGPlayer(d)
		filename = sanitizeFilename(d.Name) + "-tcgplayer.txt"
	default:
		return nil, fmt.Errorf("unsupported export format: %s", f)
	}

	return &Export{Content: content, Format: f, Filename: filename}, nil
}

// exportArena writes a Commander section when the deck has one, then Deck.
func exportArena(d *deck.Deck) string {
	var sb strings.Builder

	var commanders, main []deck.Card
	for _, c := range d.Cards {
		if c.Category == "Commander" {
			commanders = append(commanders, c)
		} else {
			main = append(main, c)
		}
	}

	if len(commanders) > 0 {
		sb.WriteString("Commander\n")
		for _, c := range commanders {
			sb.WriteString(arenaLine(c))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Deck\n")
	for _, c := range main {
		sb.WriteString(arenaLine(c))
	}
	return sb.String()
}

func arenaLine(c deck.Card) string {
	line := fmt.Sprintf("%d %s", c.Count, c.Name)
	if c.SetCode != "" && c.CollectorNumber != "" {
		line += fmt.Sprintf(" (%s) %s", strings.ToUpper(c.SetCode), c.CollectorNumber)
	}
	return line + "\n"
}

// exportPlainText groups cards under their category, in the deck's
// category order followed by any extra categories in first-seen order.
func exportPlainText(d *deck.Deck) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "// %s\n", d.Name)
	if d.Format != "" {
		fmt.Fprintf(&sb, "// Format: %s\n", d.Format)
	}

	groups := d.ByCategory()
	order := append([]string{}, d.Categories...)
	for _, c := range d.Cards {
		if !contains(order, c.Category) {
			order = append(order, c.Category)
		}
	}

	for _, cat := range order {
		cards := groups[cat]
		if len(cards) == 0 {
			continue
		}
		total := 0
		for _, c := range cards {
			total += c.Count
		}
		fmt.Fprintf(&sb, "\n%s (%d):\n", cat, total)
		for _, c := range cards {
			fmt.Fprintf(&sb, "%dx %s\n", c.Count, c.Name)
		}
	}

	return sb.String()
}

func exportTCGPlayer(d *deck.Deck) string {
	var sb strings.Builder
	for _, c := range d.Cards {
		fmt.Fprintf(&sb, "%d %s\n", c.Count, c.Name)
	}
	return sb.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sanitizeFilename removes invalid characters from filename.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "deck"
	}
	return result
}
