package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
)

// MarketService fetches market pages and keeps the on-device page cache.
// Network and parse failures fall back to the last cached copy of the page.
type MarketService struct {
	client domain.MarketRepository
	store  domain.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewMarketService creates a new market service
func NewMarketService(client domain.MarketRepository, store domain.Store, logger *slog.Logger) *MarketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketService{client: client, store: store, logger: logger, now: time.Now}
}

// FetchPage returns page n from the network, or from the cache when the network fails.
// It fails with domain.ErrNoCachedData only when both come up empty. A
// cancelled or expired ctx is returned as is, without the cache fallback.
func (s *MarketService) FetchPage(ctx context.Context, n int) (domain.Page, error) {
	if n < 1 {
		return domain.Page{}, domain.ErrInvalidPage
	}

	coins, err := s.client.GetMarkets(ctx, n, domain.PageSize)
	if err == nil {
		if len(coins) > domain.PageSize {
			coins = coins[:domain.PageSize]
		}
		page := domain.Page{Number: n, Coins: coins, FetchedAt: s.now().UTC()}
		if err := s.store.SavePage(page); err != nil {
			s.logger.Error("failed to save page", "page", n, "error", err)
		}
		s.logger.Debug("fetched page", "page", n, "count", len(coins))
		return page, nil
	}

	// Abandoned or never sent: the network was not consulted
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug("fetch not completed", "page", n, "error", err)
		return domain.Page{}, err
	}

	s.logger.Warn("fetch failed, trying page cache", "page", n, "error", err)

	if cached, ok := s.CachedPage(n); ok {
		s.logger.Info("serving cached page", "page", n, "fetchedAt", cached.FetchedAt)
		return cached, nil
	}

	s.logger.Error("no cached data for page", "page", n)
	return domain.Page{}, fmt.Errorf("%w: %w", domain.ErrNoCachedData, err)
}

// CachedPage reads page n from the cache only
func (s *MarketService) CachedPage(n int) (domain.Page, bool) {
	page, ok := s.store.GetPage(n)
	if !ok {
		return domain.Page{}, false
	}
	page.FromCache = true
	return page, true
}

// ClearCache drops every cached page and stored response. Favorites are kept.
func (s *MarketService) ClearCache() {
	s.store.InvalidateAll()
	s.logger.Info("cache cleared")
}
