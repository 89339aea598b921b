package domain

import (
	"context"
)

// MarketRepository provides access to the external market-data API
type MarketRepository interface {
	// GetMarkets returns one page of coins ordered by market cap, descending.
	// Errors wrap ErrNetwork or ErrParse.
	GetMarkets(ctx context.Context, page, perPage int) ([]Coin, error)
}
