package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-deckforge/internal/charts"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
	"github.com/ramonehamilton/mtg-deckforge/internal/deckio"
)

var (
	evalFormat string
	evalCharts string
	evalJSON   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <decklist>",
	Short: "Evaluate a deck list file (Arena or plain text, \"-\" for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalFormat, "format", "", "Deck format, e.g. standard or commander")
	evaluateCmd.Flags().StringVar(&evalCharts, "charts", "", "Write an HTML chart page to this path")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the evaluation as JSON")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	list, err := readList(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	importer := deckio.NewImporter(newScryfall(cfg, logger), logger)
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if args[0] == "-" {
		name = "Deck"
	}
	result, err := importer.Import(cmd.Context(), name, evalFormat, list)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if len(result.Unresolved) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown cards: %s\n", strings.Join(result.Unresolved, ", "))
	}

	owned := result.Deck.Owned()
	if err := deckeval.ValidateCards(owned); err != nil {
		return err
	}
	ev := deckeval.Evaluate(owned)
	if evalJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ev); err != nil {
			return err
		}
	} else {
		printEvaluation(out, result.Deck.Name, ev)
	}

	if evalCharts != "" {
		if err := charts.RenderDeckFile(evalCharts, result.Deck.Name, ev.Stats, charts.DefaultChartConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "charts written to %s\n", evalCharts)
	}
	return nil
}

func readList(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read deck list: %w", err)
	}
	return string(data), nil
}
