package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"
)

func testPage(number, size int) domain.Page {
	coins := make([]domain.Coin, size)
	for i := range coins {
		id := fmt.Sprintf("coin-%d-%d", number, i)
		coins[i] = domain.Coin{
			ID:             id,
			Name:           "Coin " + id,
			Image:          "https://example.com/" + id + ".png",
			CurrentPrice:   decimal.RequireFromString("1234.5678"),
			MarketCap:      decimal.NewFromInt(int64(1000000 * (size - i))),
			PriceChange24h: decimal.NewNullDecimal(decimal.RequireFromString("-2.5")),
			Sparkline: []decimal.Decimal{
				decimal.RequireFromString("1.1"),
				decimal.RequireFromString("1.3"),
			},
		}
	}
	return domain.Page{Number: number, Coins: coins, FetchedAt: time.Unix(1700000000, 0).UTC()}
}

func assertPagesEqual(t *testing.T, want, got domain.Page) {
	t.Helper()
	if want.Number != got.Number {
		t.Fatalf("page number: want %d, got %d", want.Number, got.Number)
	}
	if !want.FetchedAt.Equal(got.FetchedAt) {
		t.Errorf("fetched at: want %v, got %v", want.FetchedAt, got.FetchedAt)
	}
	if len(want.Coins) != len(got.Coins) {
		t.Fatalf("coin count: want %d, got %d", len(want.Coins), len(got.Coins))
	}
	for i := range want.Coins {
		w, g := want.Coins[i], got.Coins[i]
		if w.ID != g.ID || w.Name != g.Name || w.Image != g.Image {
			t.Errorf("coin %d identity: want %+v, got %+v", i, w, g)
		}
		if !w.CurrentPrice.Equal(g.CurrentPrice) || !w.MarketCap.Equal(g.MarketCap) {
			t.Errorf("coin %d values differ", i)
		}
		if w.PriceChange24h.Valid != g.PriceChange24h.Valid || !w.PriceChange24h.Decimal.Equal(g.PriceChange24h.Decimal) {
			t.Errorf("coin %d 24h change: want %v, got %v", i, w.PriceChange24h, g.PriceChange24h)
		}
		if len(w.Sparkline) != len(g.Sparkline) {
			t.Fatalf("coin %d sparkline length: want %d, got %d", i, len(w.Sparkline), len(g.Sparkline))
		}
		for j := range w.Sparkline {
			if !w.Sparkline[j].Equal(g.Sparkline[j]) {
				t.Errorf("coin %d sparkline[%d]: want %s, got %s", i, j, w.Sparkline[j], g.Sparkline[j])
			}
		}
	}
}

func TestPageKey(t *testing.T) {
	if got := PageKey(3); got != "coins-cache-3" {
		t.Errorf("PageKey(3) = %q, want coins-cache-3", got)
	}
}

func TestStore_PageRoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	page := testPage(1, domain.PageSize)
	if err := s.SavePage(page); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen so the read comes from bbolt, not the memory layer
	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok := s.GetPage(1)
	if !ok {
		t.Fatal("expected cached page 1")
	}
	assertPagesEqual(t, page, got)

	if _, ok := s.GetPage(2); ok {
		t.Error("page 2 was never saved")
	}
}

func TestStore_SavePageOverwrites(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.SavePage(testPage(2, 3))
	s.SavePage(testPage(2, 5))

	got, ok := s.GetPage(2)
	if !ok || got.Len() != 5 {
		t.Fatalf("expected overwritten page with 5 coins, got %d (ok=%v)", got.Len(), ok)
	}
}

func TestStore_FavoritesSurviveInvalidateAll(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	favs := testPage(1, 2).Coins
	if err := s.SaveFavorites(favs); err != nil {
		t.Fatalf("SaveFavorites: %v", err)
	}
	s.SavePage(testPage(1, 2))
	s.SavePage(testPage(4, 2))

	if got := s.PageNumbers(); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("PageNumbers = %v, want [1 4]", got)
	}

	s.InvalidateAll()

	if _, ok := s.GetPage(1); ok {
		t.Error("page 1 should be gone")
	}
	if got := s.PageNumbers(); len(got) != 0 {
		t.Errorf("PageNumbers after invalidate = %v", got)
	}
	got, ok := s.GetFavorites()
	if !ok || len(got) != 2 {
		t.Fatalf("favorites lost: %v (ok=%v)", got, ok)
	}
}

func TestStore_EmptyFavoritesPersistAsEmptyList(t *testing.T) {
	s, _ := Open("")
	if err := s.SaveFavorites(nil); err != nil {
		t.Fatalf("SaveFavorites: %v", err)
	}
	got, ok := s.GetFavorites()
	if !ok {
		t.Fatal("expected stored empty list")
	}
	if len(got) != 0 {
		t.Errorf("expected no favorites, got %d", len(got))
	}
}

func TestStore_ResponseEviction(t *testing.T) {
	for _, dir := range []string{"", t.TempDir()} {
		name := "persistent"
		if dir == "" {
			name = "memory"
		}
		t.Run(name, func(t *testing.T) {
			s, err := Open(dir)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()

			base := time.Unix(1700000000, 0)
			for i := 0; i < 5; i++ {
				resp := domain.CachedResponse{
					StatusCode: 200,
					Body:       []byte(fmt.Sprintf("body-%d", i)),
					StoredAt:   base.Add(time.Duration(i) * time.Minute),
				}
				if err := s.SaveResponse(fmt.Sprintf("url-%d", i), resp, 3); err != nil {
					t.Fatalf("SaveResponse: %v", err)
				}
			}

			for i := 0; i < 2; i++ {
				if _, ok := s.GetResponse(fmt.Sprintf("url-%d", i)); ok {
					t.Errorf("url-%d should have been evicted", i)
				}
			}
			for i := 2; i < 5; i++ {
				got, ok := s.GetResponse(fmt.Sprintf("url-%d", i))
				if !ok {
					t.Fatalf("url-%d missing", i)
				}
				if string(got.Body) != fmt.Sprintf("body-%d", i) {
					t.Errorf("url-%d body = %q", i, got.Body)
				}
			}
		})
	}
}

func TestStore_SchemaBumpClearsPagesKeepsFavorites(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.SavePage(testPage(1, 1))
	s.SaveFavorites(testPage(9, 1).Coins)

	// Simulate a database written by an older schema
	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(keySchemaVersion), []byte("0"))
	})
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetPage(1); ok {
		t.Error("pages should be cleared on schema change")
	}
	if favs, ok := s.GetFavorites(); !ok || len(favs) != 1 {
		t.Errorf("favorites should survive schema change, got %v", favs)
	}
}
