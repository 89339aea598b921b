package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/log"
	"github.com/mmcdole/coinboard/internal/market/coingecko"
	"github.com/mmcdole/coinboard/internal/store"
)

func marketsHandler(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	records := make([]string, domain.PageSize)
	for i := range records {
		records[i] = fmt.Sprintf(`{"id":"p%s-c%d","name":"Coin %d","current_price":1.5,"market_cap":%d}`,
			page, i, i, 1000-i)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte("[" + strings.Join(records, ",") + "]"))
}

// Rapid page changes must not starve the page the user lands on
func TestMarketService_RapidPagingResolvesLastPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(marketsHandler))
	defer srv.Close()

	// One request per 100ms; a queue of abandoned requests would push the
	// last page far past its deadline
	client := coingecko.NewClient(coingecko.Options{BaseURL: srv.URL, RequestsPerMinute: 600}, log.NullLogger())
	st, _ := store.Open("")
	svc := NewMarketService(client, st, log.NullLogger())
	pager := browse.NewPager(10)

	type result struct {
		req  browse.Request
		page domain.Page
		err  error
	}
	results := make(chan result, 16)
	fetch := func(req browse.Request) {
		go func() {
			ctx, cancel := context.WithTimeout(req.Context(), 500*time.Millisecond)
			defer cancel()
			page, err := svc.FetchPage(ctx, req.Page)
			results <- result{req, page, err}
		}()
	}

	fetch(pager.Load())
	for n := 2; n <= 9; n++ {
		time.Sleep(20 * time.Millisecond)
		req, ok := pager.GoToPage(n)
		if !ok {
			t.Fatalf("GoToPage(%d) refused", n)
		}
		fetch(req)
	}

	for i := 0; i < 9; i++ {
		r := <-results
		accepted := pager.Resolve(r.req, r.page, r.err)
		if r.req.Page != 9 {
			if accepted {
				t.Errorf("page %d result should be discarded", r.req.Page)
			}
			if errors.Is(r.err, domain.ErrNoCachedData) {
				t.Errorf("abandoned page %d reported offline: %v", r.req.Page, r.err)
			}
			continue
		}
		if r.err != nil {
			t.Fatalf("page 9: %v", r.err)
		}
	}

	if pager.Status() != browse.StatusLoaded || pager.Page() != 9 {
		t.Fatalf("pager: page %d status %v err %v", pager.Page(), pager.Status(), pager.Err())
	}
	if pager.FromCache() {
		t.Error("page 9 should come from the network")
	}
	if got := pager.Coins()[0].ID; got != "p9-c0" {
		t.Errorf("first coin = %s", got)
	}
}

func TestMarketService_CancelledFetchSkipsCache(t *testing.T) {
	svc, market, _ := newMarketService(t)
	if _, err := svc.FetchPage(context.Background(), 1); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	market.setOffline(true)
	market.err = context.Canceled

	page, err := svc.FetchPage(context.Background(), 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if page.FromCache || page.Len() != 0 {
		t.Error("a cancelled fetch should not be answered from the cache")
	}
}
