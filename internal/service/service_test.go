package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/shopspring/decimal"
)

// fakeMarket serves generated pages and can be switched offline
type fakeMarket struct {
	mu      sync.Mutex
	offline bool
	err     error
	calls   []int
}

func (f *fakeMarket) GetMarkets(ctx context.Context, page, perPage int) ([]domain.Coin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if f.offline {
		if f.err != nil {
			return nil, f.err
		}
		return nil, fmt.Errorf("dial tcp: connection refused: %w", domain.ErrNetwork)
	}
	return makeCoins(page, perPage), nil
}

func (f *fakeMarket) setOffline(offline bool) {
	f.mu.Lock()
	f.offline = offline
	f.mu.Unlock()
}

func makeCoin(id string) domain.Coin {
	return domain.Coin{
		ID:             id,
		Name:           "Coin " + id,
		CurrentPrice:   decimal.RequireFromString("42.5"),
		MarketCap:      decimal.NewFromInt(1000),
		PriceChange24h: decimal.NewNullDecimal(decimal.RequireFromString("1.25")),
		Sparkline:      []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)},
	}
}

func makeCoins(page, n int) []domain.Coin {
	coins := make([]domain.Coin, n)
	for i := range coins {
		coins[i] = makeCoin(fmt.Sprintf("p%d-c%d", page, i))
	}
	return coins
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
