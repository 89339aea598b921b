package market

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/httpcache"
	"github.com/mmcdole/coinboard/internal/market/coingecko"
)

// NewClient creates the market repository described by cfg.
// When responses is non-nil, requests go through the network-first cache.
func NewClient(cfg *config.Config, responses domain.ResponseStore, logger *slog.Logger) (domain.MarketRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Market.BaseURL == "" {
		return nil, fmt.Errorf("market base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := coingecko.Options{
		BaseURL:           cfg.Market.BaseURL,
		APIKey:            cfg.Market.APIKey,
		Timeout:           cfg.Market.Timeout,
		RequestsPerMinute: cfg.Market.RequestsPerMinute,
	}

	if responses != nil {
		opts.Transport = httpcache.New(nil, responses, httpcache.Options{
			Prefix:         cfg.Market.BaseURL,
			NetworkTimeout: cfg.Cache.NetworkTimeout,
			MaxEntries:     cfg.Cache.MaxEntries,
			MaxAge:         cfg.Cache.MaxAge,
		}, logger)
	}

	return coingecko.NewClient(opts, logger), nil
}
