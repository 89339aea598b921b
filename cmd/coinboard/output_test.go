package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func sampleCoins() []domain.Coin {
	return []domain.Coin{
		{
			ID:             "bitcoin",
			Name:           "Bitcoin",
			CurrentPrice:   decimal.RequireFromString("67123.45"),
			MarketCap:      decimal.RequireFromString("1321000000000"),
			PriceChange24h: decimal.NewNullDecimal(decimal.RequireFromString("2.3146")),
		},
		{
			ID:           "dogecoin",
			Name:         "Dogecoin",
			CurrentPrice: decimal.RequireFromString("0.1234"),
			MarketCap:    decimal.RequireFromString("17000000000"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml"} {
		if _, err := parseFormat(s); err != nil {
			t.Errorf("parseFormat(%q): %v", s, err)
		}
	}
	if _, err := parseFormat("csv"); err == nil {
		t.Error("csv should be rejected")
	}
}

func TestWriteFavorites_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFavorites(&buf, sampleCoins(), formatJSON, 80); err != nil {
		t.Fatalf("writeFavorites: %v", err)
	}

	var got []coinRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0].ID != "bitcoin" || got[0].Price != "67123.45" {
		t.Errorf("unexpected records %+v", got)
	}
	if got[0].Change24h != "2.31" || got[1].Change24h != "" {
		t.Errorf("change = %q / %q", got[0].Change24h, got[1].Change24h)
	}
}

func TestWriteFavorites_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFavorites(&buf, sampleCoins(), formatYAML, 80); err != nil {
		t.Fatalf("writeFavorites: %v", err)
	}

	var got []coinRecord
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Dogecoin" {
		t.Errorf("unexpected records %+v", got)
	}
	if strings.Contains(buf.String(), "change_24h: \"\"") {
		t.Error("missing change should be omitted")
	}
}

func TestWriteFavorites_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFavorites(&buf, sampleCoins(), formatTable, 100); err != nil {
		t.Fatalf("writeFavorites: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "1  Bitcoin") {
		t.Errorf("row 1 = %q", lines[1])
	}
	for _, want := range []string{"$67,123.45", "+2.31%", "$0.123400", "n/a"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestWriteFavorites_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeFavorites(&buf, nil, formatTable, 80)
	if !strings.Contains(buf.String(), "No favorites") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	writeFavorites(&buf, nil, formatJSON, 80)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON = %q", buf.String())
	}
}

func TestClearedSummary(t *testing.T) {
	tests := []struct {
		pages []int
		want  string
	}{
		{nil, "Cache cleared (no cached pages)"},
		{[]int{3}, "Cache cleared: 1 page (3)"},
		{[]int{1, 2, 10}, "Cache cleared: 3 pages (1, 2, 10)"},
	}
	for _, tt := range tests {
		if got := clearedSummary(tt.pages); got != tt.want {
			t.Errorf("clearedSummary(%v) = %q, want %q", tt.pages, got, tt.want)
		}
	}
}
