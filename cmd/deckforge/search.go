package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/search"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
)

var (
	searchNatural bool
	searchColors  []string
	searchRarity  []string
	searchTypes   []string
	searchSort    string
	searchDesc    bool
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search cards with Scryfall syntax or plain English (--natural)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var translateCmd = &cobra.Command{
	Use:   "translate <text...>",
	Short: "Translate plain English into a Scryfall query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranslate,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchNatural, "natural", "n", false, "Translate the query with the language model first")
	searchCmd.Flags().StringSliceVar(&searchColors, "colors", nil, "Keep cards of these colors (W,U,B,R,G or C)")
	searchCmd.Flags().StringSliceVar(&searchRarity, "rarity", nil, "Keep cards of these rarities")
	searchCmd.Flags().StringSliceVar(&searchTypes, "type", nil, "Keep cards whose type line contains one of these")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort by name, cmc, color, rarity, released, usd or edhrec")
	searchCmd.Flags().BoolVar(&searchDesc, "desc", false, "Sort descending")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum cards to print (0 for all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc := newSearchService(cfg, newScryfall(cfg, logger), newCompleter(cfg, logger), logger)

	req := service.SearchRequest{
		Query: strings.Join(args, " "),
		Filter: search.Filter{
			Colors:   searchColors,
			Rarities: searchRarity,
			Types:    searchTypes,
		},
		Sort: search.Sort{Field: search.Field(strings.ToLower(searchSort))},
	}
	if searchDesc {
		req.Sort.Dir = "desc"
	}

	var resp *service.SearchResponse
	if searchNatural {
		natural, err := svc.Natural(cmd.Context(), req)
		if err != nil {
			return explainLLM(err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "query: %s\n", natural.TranslatedQuery)
		resp = &natural.SearchResponse
	} else {
		var err error
		if resp, err = svc.Search(cmd.Context(), req); err != nil {
			return err
		}
	}

	printCards(cmd.OutOrStdout(), resp, searchLimit)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	svc := newSearchService(cfg, newScryfall(cfg, logger), newCompleter(cfg, logger), logger)
	query, err := svc.Translate(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return explainLLM(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), query)
	return nil
}

func explainLLM(err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return fmt.Errorf("%w (set [llm] provider in the config or DECKFORGE_LLM_PROVIDER)", err)
	}
	return err
}
