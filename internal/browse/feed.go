package browse

import (
	"github.com/mmcdole/coinboard/internal/domain"
)

// Feed is the accumulating controller. Pages are appended in cursor order
// as the sentinel below the last card comes into view.
//
// The accumulated list survives favorites-only mode: leaving that mode shows
// the list exactly as it was.
type Feed struct {
	cursor  int // last page requested; 0 before Start
	seq     uint64
	pending Request
	flight  inflight
	loading bool

	coins  []domain.Coin
	seen   map[string]bool // coin IDs already in coins
	loaded map[int]bool    // pages already appended

	err           error
	cachedPages   int
	favoritesOnly bool
	exhausted     bool // an empty page marked the end of the market
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{
		seen:   make(map[string]bool),
		loaded: make(map[int]bool),
	}
}

func (f *Feed) request() Request {
	f.seq++
	f.pending = Request{Page: f.cursor, Seq: f.seq, ctx: f.flight.next()}
	f.loading = true
	f.err = nil
	return f.pending
}

// Start requests page 1 to seed the list. It does nothing once started.
func (f *Feed) Start() (Request, bool) {
	if f.cursor != 0 {
		return Request{}, false
	}
	f.cursor = 1
	return f.request(), true
}

// SentinelVisible advances the cursor and requests the next page. It is
// suppressed in favorites-only mode, while a fetch is in flight, and after
// a failure until Retry. Once a page comes back empty nothing more is requested.
func (f *Feed) SentinelVisible() (Request, bool) {
	if f.cursor == 0 || f.favoritesOnly || f.loading || f.err != nil || f.exhausted {
		return Request{}, false
	}
	f.cursor++
	return f.request(), true
}

// Retry re-issues the page that failed
func (f *Feed) Retry() (Request, bool) {
	if f.err == nil || f.loading {
		return Request{}, false
	}
	return f.request(), true
}

// Resolve applies a fetch result and reports whether it was accepted.
// A page already appended is never appended again and known IDs are skipped.
func (f *Feed) Resolve(req Request, page domain.Page, err error) bool {
	if !f.loading || req != f.pending {
		return false
	}
	f.flight.release()
	f.loading = false

	if err != nil {
		f.err = err
		return true
	}
	if f.loaded[req.Page] {
		return true
	}
	f.loaded[req.Page] = true
	if page.Len() == 0 {
		f.exhausted = true
		return true
	}
	if page.FromCache {
		f.cachedPages++
	}

	for _, c := range page.Coins {
		if f.seen[c.ID] {
			continue
		}
		f.seen[c.ID] = true
		f.coins = append(f.coins, c)
	}
	return true
}

// SetFavoritesOnly toggles suppression of sentinel fetches
func (f *Feed) SetFavoritesOnly(on bool) {
	f.favoritesOnly = on
}

// Status returns the load state of the feed tail
func (f *Feed) Status() Status {
	switch {
	case f.loading:
		return StatusLoading
	case f.err != nil:
		return StatusFailed
	case f.cursor == 0:
		return StatusIdle
	default:
		return StatusLoaded
	}
}

// Cursor returns the last requested page
func (f *Feed) Cursor() int { return f.cursor }

// Coins returns the accumulated list
func (f *Feed) Coins() []domain.Coin { return f.coins }

// Err returns the failure of the last fetch, if any
func (f *Feed) Err() error { return f.err }

// Exhausted reports whether the end of the market was reached
func (f *Feed) Exhausted() bool { return f.exhausted }

// CachedPages returns how many appended pages came from the offline cache
func (f *Feed) CachedPages() int { return f.cachedPages }
