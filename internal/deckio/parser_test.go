package deckio

import (
	"errors"
	"testing"
)

func boardCounts(p *ParsedDeck) (main, side, commander int) {
	for _, c := range p.Cards {
		switch c.Board {
		case BoardMain:
			main++
		case BoardSideboard:
			side++
		case BoardCommander:
			commander++
		}
	}
	return
}

func TestParseArena(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantMain      int
		wantSide      int
		wantCommander int
		wantWarnings  int
	}{
		{
			name: "blank line starts sideboard",
			input: `Deck
4 Lightning Bolt (M21) 123
3 Shock (M21) 124
2 Mountain (M21) 275

2 Duress (M21) 95
1 Negate (M21) 56`,
			wantMain: 3,
			wantSide: 2,
		},
		{
			name: "without set codes",
			input: `Deck
4 Lightning Bolt
3 Shock
2 Mountain`,
			wantMain: 3,
		},
		{
			name: "commander section",
			input: `Commander
1 Atraxa, Praetors' Voice (C16) 28

Deck
1 Sol Ring (C16) 272
1 Arcane Signet (ELD) 331`,
			wantMain:      2,
			wantCommander: 1,
		},
		{
			name: "explicit sideboard header",
			input: `4 Lightning Bolt
Sideboard
2 Duress`,
			wantMain: 1,
			wantSide: 1,
		},
		{
			name: "unparseable lines warn",
			input: `Deck
4x Lightning Bolt
Shock x3
2 Mountain`,
			wantMain:     1,
			wantWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseArena(tt.input)
			main, side, commander := boardCounts(got)
			if main != tt.wantMain || side != tt.wantSide || commander != tt.wantCommander {
				t.Errorf("boards = %d/%d/%d, want %d/%d/%d", main, side, commander, tt.wantMain, tt.wantSide, tt.wantCommander)
			}
			if len(got.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestParseArena_LineDetails(t *testing.T) {
	got := ParseArena("Deck\n4 Fable of the Mirror-Breaker (NEO) 141\n1 Plains (DMU) 262★")
	if len(got.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(got.Cards))
	}

	c := got.Cards[0]
	if c.Quantity != 4 || c.Name != "Fable of the Mirror-Breaker" || c.SetCode != "neo" || c.CollectorNumber != "141" || c.Line != 2 {
		t.Errorf("unexpected card %+v", c)
	}
	if got.Cards[1].CollectorNumber != "262★" {
		t.Errorf("unexpected collector number %q", got.Cards[1].CollectorNumber)
	}
}

func TestParsePlainText(t *testing.T) {
	input := `// Mono Red
4 Lightning Bolt
4x Shock
Monastery Swiftspear x4
# comment
0 Ghost Card
just some words

Sideboard:
2 Duress`

	got := ParsePlainText(input)
	main, side, _ := boardCounts(got)
	if main != 3 || side != 1 {
		t.Errorf("boards = %d/%d, want 3/1", main, side)
	}
	if len(got.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", got.Warnings)
	}

	want := []struct {
		qty  int
		name string
	}{
		{4, "Lightning Bolt"},
		{4, "Shock"},
		{4, "Monastery Swiftspear"},
		{2, "Duress"},
	}
	for i, w := range want {
		if got.Cards[i].Quantity != w.qty || got.Cards[i].Name != w.name {
			t.Errorf("card %d = %d %q, want %d %q", i, got.Cards[i].Quantity, got.Cards[i].Name, w.qty, w.name)
		}
	}
}

func TestParse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := Parse("  \n "); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("nothing recognizable", func(t *testing.T) {
		if _, err := Parse("hello\nworld"); !errors.Is(err, ErrNoCards) {
			t.Errorf("expected ErrNoCards, got %v", err)
		}
	})

	t.Run("prefers plain text when it reads more", func(t *testing.T) {
		got, err := Parse("4x Lightning Bolt\nShock x2\n1 Mountain")
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Cards) != 3 {
			t.Errorf("expected 3 cards, got %d", len(got.Cards))
		}
	})

	t.Run("tie goes to arena", func(t *testing.T) {
		got, err := Parse("4 Lightning Bolt (M21) 123")
		if err != nil {
			t.Fatal(err)
		}
		if got.Cards[0].Name != "Lightning Bolt" || got.Cards[0].SetCode != "m21" {
			t.Errorf("expected arena parse, got %+v", got.Cards[0])
		}
	})
}
