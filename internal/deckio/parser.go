// Package deckio reads and writes deck lists in the text formats players
// paste between tools.
package deckio

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyInput is returned for a blank deck list.
	ErrEmptyInput = errors.New("empty import string")

	// ErrNoCards is returned when no line could be read as a card.
	ErrNoCards = errors.New("no cards found in import")
)

// Board is the section of a list a card was found in.
type Board string

const (
	BoardMain      Board = "main"
	BoardSideboard Board = "sideboard"
	BoardCommander Board = "commander"
)

// ParsedCard is one card line.
type ParsedCard struct {
	Quantity        int
	Name            string
	SetCode         string // only from Arena lines like "4 Lightning Bolt (M21) 123"
	CollectorNumber string
	Board           Board
	Line            int
}

// ParsedDeck is the result of reading a deck list.
type ParsedDeck struct {
	Cards    []ParsedCard
	Warnings []string
}

// Count sums quantities on a board.
func (p *ParsedDeck) Count(board Board) int {
	n := 0
	for _, c := range p.Cards {
		if c.Board == board {
			n += c.Quantity
		}
	}
	return n
}

var (
	// "4 Lightning Bolt" or "4 Lightning Bolt (M21) 123"
	arenaLineRE = regexp.MustCompile(`^(\d+)\s+([^(]+?)(?:\s+\(([A-Za-z0-9]+)\)(?:\s+(\S+))?)?$`)

	// "4 Lightning Bolt" or "4x Lightning Bolt"
	plainLeading = regexp.MustCompile(`^(\d+)[xX]?\s+(.+)$`)

	// "Lightning Bolt x4"
	plainTrailing = regexp.MustCompile(`^(.+?)\s+[xX](\d+)$`)
)

// Parse reads a deck list, trying Arena format and plain text and keeping
// whichever recognizes more cards. Ties go to Arena.
func Parse(input string) (*ParsedDeck, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	arena := ParseArena(input)
	plain := ParsePlainText(input)

	best := arena
	if len(plain.Cards) > len(arena.Cards) {
		best = plain
	}
	if len(best.Cards) == 0 {
		return nil, ErrNoCards
	}
	return best, nil
}

// ParseArena parses the MTG Arena export format:
//
//	Commander
//	1 Atraxa, Praetors' Voice (C16) 28
//
//	Deck
//	1 Sol Ring (C16) 272
//
// Section headers switch boards. Without headers, the first blank line after
// main deck cards starts the sideboard.
func ParseArena(input string) *ParsedDeck {
	out := &ParsedDeck{}
	board := BoardMain
	seenMain := false

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			if board == BoardMain && seenMain {
				board = BoardSideboard
			}
			continue
		}
		if b, ok := header(line); ok {
			board = b
			continue
		}
		if skipLine(line) {
			continue
		}

		m := arenaLineRE.FindStringSubmatch(line)
		if m == nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Line %d: Invalid quantity '%s'", i+1, m[1]))
			continue
		}

		out.Cards = append(out.Cards, ParsedCard{
			Quantity:        qty,
			Name:            strings.TrimSpace(m[2]),
			SetCode:         strings.ToLower(m[3]),
			CollectorNumber: m[4],
			Board:           board,
			Line:            i + 1,
		})
		if board == BoardMain {
			seenMain = true
		}
	}

	return out
}

// ParsePlainText parses simple lists:
//   - "4 Lightning Bolt"
//   - "4x Lightning Bolt"
//   - "Lightning Bolt x4"
//
// Lines starting with // or # are comments.
func ParsePlainText(input string) *ParsedDeck {
	out := &ParsedDeck{}
	board := BoardMain

	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || skipLine(line) {
			continue
		}
		if b, ok := header(line); ok {
			board = b
			continue
		}

		var (
			qty  int
			name string
			err  error
		)
		switch {
		case plainLeading.MatchString(line):
			m := plainLeading.FindStringSubmatch(line)
			qty, err = strconv.Atoi(m[1])
			name = m[2]
		case plainTrailing.MatchString(line):
			m := plainTrailing.FindStringSubmatch(line)
			qty, err = strconv.Atoi(m[2])
			name = m[1]
		default:
			out.Warnings = append(out.Warnings, fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}
		if err != nil || qty <= 0 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Line %d: Invalid quantity in '%s'", i+1, line))
			continue
		}

		out.Cards = append(out.Cards, ParsedCard{
			Quantity: qty,
			Name:     strings.TrimSpace(name),
			Board:    board,
			Line:     i + 1,
		})
	}

	return out
}

func header(line string) (Board, bool) {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	switch h {
	case "deck", "main", "mainboard", "main deck":
		return BoardMain, true
	case "sideboard", "companion", "maybeboard":
		return BoardSideboard, true
	case "commander", "commanders":
		return BoardCommander, true
	}
	if strings.HasPrefix(h, "sideboard (") {
		return BoardSideboard, true
	}
	return "", false
}

// skipLine reports comments and Arena metadata such as "Name My Deck".
func skipLine(line string) bool {
	return strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "Name ") ||
		line == "About"
}
