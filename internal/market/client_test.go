package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/log"
	"github.com/mmcdole/coinboard/internal/store"
)

func TestNewClient_RequiresConfig(t *testing.T) {
	if _, err := NewClient(nil, nil, nil); err == nil {
		t.Error("nil config should fail")
	}
	cfg := config.DefaultConfig()
	cfg.Market.BaseURL = ""
	if _, err := NewClient(cfg, nil, nil); err == nil {
		t.Error("empty base URL should fail")
	}
}

func TestNewClient_ServesCachedResponseOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"bitcoin","name":"Bitcoin","current_price":1,"market_cap":2}]`))
	}))

	s, _ := store.Open("")
	cfg := config.DefaultConfig()
	cfg.Market.BaseURL = srv.URL
	cfg.Market.RequestsPerMinute = 0

	repo, err := NewClient(cfg, s, log.NullLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := repo.GetMarkets(context.Background(), 1, 10); err != nil {
		t.Fatalf("online fetch: %v", err)
	}
	srv.Close()

	coins, err := repo.GetMarkets(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("offline fetch should hit the response cache: %v", err)
	}
	if len(coins) != 1 || coins[0].ID != "bitcoin" {
		t.Errorf("unexpected coins %+v", coins)
	}
}
