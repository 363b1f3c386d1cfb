// Package charts renders deck statistics as interactive go-echarts HTML.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/mtg-deckforge/internal/deckeval"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Width  string // Chart width (e.g., "900px")
	Height string // Chart height (e.g., "500px")
	Theme  string
	Colors []string // Palette for non-color-coded series
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "420px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// manaColors are the pie slice colors for each color bucket.
var manaColors = map[string]string{
	deckeval.White:     "#F8E7B9",
	deckeval.Blue:      "#0E68AB",
	deckeval.Black:     "#150B00",
	deckeval.Red:       "#D3202A",
	deckeval.Green:     "#00733E",
	deckeval.Colorless: "#9E9E9E",
}

var colorLabels = map[string]string{
	deckeval.White:     "White",
	deckeval.Blue:      "Blue",
	deckeval.Black:     "Black",
	deckeval.Red:       "Red",
	deckeval.Green:     "Green",
	deckeval.Colorless: "Colorless",
}

func globalOpts(config ChartConfig, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	}
}

// ManaCurveChart is a bar chart of non-land cards per mana value bucket.
func ManaCurveChart(stats deckeval.DeckStats, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(config, "Mana Curve",
		fmt.Sprintf("Average mana value %.2f", stats.AverageManaValue)),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0]}),
	)...)

	data := make([]opts.BarData, len(deckeval.CurveBuckets))
	for i, bucket := range deckeval.CurveBuckets {
		data[i] = opts.BarData{Value: stats.ManaCurve[bucket]}
	}

	bar.SetXAxis(deckeval.CurveBuckets).
		AddSeries("Cards", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)
	return bar
}

// ColorChart is a pie of the color distribution. Empty buckets are omitted.
func ColorChart(stats deckeval.DeckStats, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(config, "Colors", "")...)

	var data []opts.PieData
	for _, c := range deckeval.ColorBuckets {
		n := stats.ColorDistribution[c]
		if n == 0 {
			continue
		}
		data = append(data, opts.PieData{
			Name:      colorLabels[c],
			Value:     n,
			ItemStyle: &opts.ItemStyle{Color: manaColors[c]},
		})
	}

	pie.AddSeries("Colors", data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c}",
		}))
	return pie
}

// TypeChart is a pie of the card type distribution. Empty types are omitted.
func TypeChart(stats deckeval.DeckStats, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(append(globalOpts(config, "Card Types", ""),
		charts.WithColorsOpts(opts.Colors(config.Colors)),
	)...)

	var data []opts.PieData
	for _, cat := range deckeval.Categories {
		if n := stats.TypeDistribution[cat]; n > 0 {
			data = append(data, opts.PieData{Name: string(cat), Value: n})
		}
	}

	pie.AddSeries("Types", data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {c}",
		}))
	return pie
}

// RenderDeck writes a standalone HTML page with the curve, color and type
// charts for a deck.
func RenderDeck(w io.Writer, title string, stats deckeval.DeckStats, config ChartConfig) error {
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		ManaCurveChart(stats, config),
		ColorChart(stats, config),
		TypeChart(stats, config),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

// RenderDeckFile writes the deck charts page to outputPath.
func RenderDeckFile(outputPath, title string, stats deckeval.DeckStats, config ChartConfig) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return RenderDeck(f, title, stats, config)
}
