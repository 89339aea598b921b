package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PageSize is the fixed number of coins requested per page
const PageSize = 10

// Coin is an immutable market snapshot for a single asset
type Coin struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Image          string              `json:"image,omitempty"`
	CurrentPrice   decimal.Decimal     `json:"current_price"`
	MarketCap      decimal.Decimal     `json:"market_cap"`
	PriceChange24h decimal.NullDecimal `json:"price_change_percentage_24h"`
	Sparkline      []decimal.Decimal   `json:"sparkline,omitempty"` // 7-day price history, oldest first
}

// Trend reports the direction of the 7-day sparkline
type Trend int

const (
	TrendNone Trend = iota // fewer than two points
	TrendUp
	TrendDown
)

// Trend compares the last sparkline value against the first.
// A flat series counts as down, matching the red/green split of the indicator.
func (c Coin) Trend() Trend {
	if len(c.Sparkline) < 2 {
		return TrendNone
	}
	if c.Sparkline[len(c.Sparkline)-1].GreaterThan(c.Sparkline[0]) {
		return TrendUp
	}
	return TrendDown
}

// IsGaining returns true when the 24h change is known and positive
func (c Coin) IsGaining() bool {
	return c.PriceChange24h.Valid && c.PriceChange24h.Decimal.IsPositive()
}

// Page is one fixed-size batch of coins addressed by a 1-based number
type Page struct {
	Number    int       `json:"page"`
	Coins     []Coin    `json:"coins"`
	FetchedAt time.Time `json:"fetched_at"`

	// FromCache is set on pages served by the offline fallback; never persisted
	FromCache bool `json:"-"`
}

// Len returns the number of coins in the page
func (p Page) Len() int {
	return len(p.Coins)
}
