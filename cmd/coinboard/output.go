package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/tui/components"
	"github.com/mmcdole/coinboard/internal/tui/styles"
	"gopkg.in/yaml.v3"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
}

// coinRecord is the exported shape of a coin for json and yaml output
type coinRecord struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Price     string `json:"price" yaml:"price"`
	MarketCap string `json:"market_cap" yaml:"market_cap"`
	Change24h string `json:"change_24h,omitempty" yaml:"change_24h,omitempty"`
}

func toRecord(c domain.Coin) coinRecord {
	r := coinRecord{
		ID:        c.ID,
		Name:      c.Name,
		Price:     c.CurrentPrice.String(),
		MarketCap: c.MarketCap.String(),
	}
	if c.PriceChange24h.Valid {
		r.Change24h = c.PriceChange24h.Decimal.StringFixed(2)
	}
	return r
}

func writeFavorites(w io.Writer, coins []domain.Coin, f format, width int) error {
	switch f {
	case formatJSON, formatYAML:
		records := make([]coinRecord, len(coins))
		for i, c := range coins {
			records[i] = toRecord(c)
		}
		if f == formatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(coins) == 0 {
		_, err := fmt.Fprintln(w, "No favorites")
		return err
	}
	writeCoinTable(w, coins, width)
	return nil
}

// Plain table column widths
const (
	colRank   = 4
	colPrice  = 14
	colCap    = 20
	colChange = 9
	colTrend  = 14
	colGap    = "  "
)

// writeCoinTable prints coins as an uncolored table numbered from 1
func writeCoinTable(w io.Writer, coins []domain.Coin, width int) {
	nameWidth := max(10, width-colRank-colPrice-colCap-colChange-colTrend-5*len(colGap))

	row := func(cells ...string) {
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, colGap), " "))
	}

	row(
		styles.PadLeft("#", colRank),
		styles.PadRight("Name", nameWidth),
		styles.PadLeft("Price", colPrice),
		styles.PadLeft("Market cap", colCap),
		styles.PadLeft("24h", colChange),
		"7d",
	)
	for i, c := range coins {
		row(
			styles.PadLeft(strconv.Itoa(i+1), colRank),
			styles.PadRight(styles.Truncate(c.Name, nameWidth), nameWidth),
			styles.PadLeft(components.FormatUSD(c.CurrentPrice), colPrice),
			styles.PadLeft(components.FormatMarketCap(c.MarketCap), colCap),
			styles.PadLeft(components.FormatChange(c.PriceChange24h), colChange),
			components.Sparkline(c.Sparkline, colTrend),
		)
	}
}

// clearedSummary reports which cached pages `cache clear` removed
func clearedSummary(pages []int) string {
	if len(pages) == 0 {
		return "Cache cleared (no cached pages)"
	}
	nums := make([]string, len(pages))
	for i, n := range pages {
		nums[i] = strconv.Itoa(n)
	}
	noun := "pages"
	if len(pages) == 1 {
		noun = "page"
	}
	return fmt.Sprintf("Cache cleared: %d %s (%s)", len(pages), noun, strings.Join(nums, ", "))
}
