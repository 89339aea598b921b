package domain

import "time"

// Store handles the local bbolt database (pages, favorites, HTTP responses).
// Writes are whole-value snapshots; last writer wins.
type Store interface {
	// === Page cache ===
	GetPage(number int) (Page, bool)
	SavePage(page Page) error

	// === Favorites ===
	GetFavorites() ([]Coin, bool)
	SaveFavorites(coins []Coin) error

	// === Invalidation ===
	InvalidatePages()
	InvalidateAll()

	Close() error
}

// CachedResponse is a stored HTTP response for the network-first cache
type CachedResponse struct {
	StatusCode int                 `json:"status"`
	Header     map[string][]string `json:"header"`
	Body       []byte              `json:"body"`
	StoredAt   time.Time           `json:"stored_at"`
}

// ResponseStore persists HTTP responses keyed by request URL
type ResponseStore interface {
	GetResponse(key string) (CachedResponse, bool)
	// SaveResponse stores the entry and evicts the oldest entries beyond maxEntries
	SaveResponse(key string, resp CachedResponse, maxEntries int) error
	InvalidateResponses()
}
