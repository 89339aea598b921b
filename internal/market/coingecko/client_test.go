package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
)

const marketsFixture = `[
  {
    "id": "bitcoin",
    "symbol": "btc",
    "name": "Bitcoin",
    "image": "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
    "current_price": 67123.45,
    "market_cap": 1321000000000,
    "market_cap_rank": 1,
    "price_change_percentage_24h": 2.31456,
    "sparkline_in_7d": {"price": [65000.1, 66000.2, 67123.45]}
  },
  {
    "id": "new-coin",
    "symbol": "new",
    "name": "New Coin",
    "image": "",
    "current_price": 0.00001234,
    "market_cap": 0,
    "market_cap_rank": null,
    "price_change_percentage_24h": null
  }
]`

func newTestClient(url string) *Client {
	return NewClient(Options{BaseURL: url, APIKey: "demo-key"}, nil)
}

func TestClient_GetMarkets(t *testing.T) {
	var gotQuery map[string]string
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marketsFixture))
	}))
	defer srv.Close()

	coins, err := newTestClient(srv.URL).GetMarkets(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("GetMarkets: %v", err)
	}

	want := map[string]string{
		"vs_currency": "usd",
		"order":       "market_cap_desc",
		"per_page":    "10",
		"page":        "3",
		"sparkline":   "true",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if gotKey != "demo-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}
	btc := coins[0]
	if btc.ID != "bitcoin" || btc.Name != "Bitcoin" {
		t.Errorf("unexpected coin %+v", btc)
	}
	if btc.CurrentPrice.String() != "67123.45" {
		t.Errorf("price = %s", btc.CurrentPrice)
	}
	if !btc.PriceChange24h.Valid || btc.PriceChange24h.Decimal.StringFixed(2) != "2.31" {
		t.Errorf("24h change = %v", btc.PriceChange24h)
	}
	if len(btc.Sparkline) != 3 || btc.Trend() != domain.TrendUp {
		t.Errorf("sparkline = %v", btc.Sparkline)
	}

	fresh := coins[1]
	if fresh.PriceChange24h.Valid {
		t.Error("null 24h change should stay invalid")
	}
	if fresh.Sparkline != nil {
		t.Error("missing sparkline should map to nil")
	}
	if fresh.CurrentPrice.String() != "0.00001234" {
		t.Errorf("small price lost precision: %s", fresh.CurrentPrice)
	}
}

func TestClient_GetMarkets_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, domain.ErrNetwork},
		{"rate limited", http.StatusTooManyRequests, `{}`, domain.ErrNetwork},
		{"not json", http.StatusOK, `<html>`, domain.ErrParse},
		{"wrong shape", http.StatusOK, `{"coins":[]}`, domain.ErrParse},
		{"missing price", http.StatusOK, `[{"id":"x","name":"X","market_cap":1}]`, domain.ErrParse},
		{"missing id", http.StatusOK, `[{"name":"X","current_price":1,"market_cap":1}]`, domain.ErrParse},
		{"blank name", http.StatusOK, `[{"id":"x","name":" ","current_price":1,"market_cap":1}]`, domain.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).GetMarkets(context.Background(), 1, 10)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_GetMarkets_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).GetMarkets(context.Background(), 1, 10)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
}

func TestClient_GetMarkets_InvalidPage(t *testing.T) {
	_, err := newTestClient("http://unused").GetMarkets(context.Background(), 0, 10)
	if !errors.Is(err, domain.ErrInvalidPage) {
		t.Fatalf("error = %v, want ErrInvalidPage", err)
	}
}

func TestClient_MarketsURL(t *testing.T) {
	c := newTestClient("https://api.example.com/v3")
	got := c.MarketsURL(2, 10)
	want := "https://api.example.com/v3/coins/markets?order=market_cap_desc&page=2&per_page=10&sparkline=true&vs_currency=usd"
	if got != want {
		t.Errorf("MarketsURL = %q\nwant %q", got, want)
	}
}

func TestClient_GetMarkets_CancelledIsNotNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(srv.URL).GetMarkets(ctx, 1, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, domain.ErrNetwork) {
		t.Error("an abandoned request is not a network failure")
	}
}

func TestClient_GetMarkets_LimiterWaitIsNotNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// One request per minute: the second would wait far past its deadline
	c := NewClient(Options{BaseURL: srv.URL, RequestsPerMinute: 1}, nil)
	if _, err := c.GetMarkets(context.Background(), 1, 10); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := c.GetMarkets(ctx, 2, 10)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if errors.Is(err, domain.ErrNetwork) {
		t.Error("a limiter wait is not a network failure")
	}
}
