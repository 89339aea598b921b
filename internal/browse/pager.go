package browse

import (
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
)

// Pager is the page-jump controller. The visible set is always exactly the
// latest accepted result for the current page; nothing accumulates.
type Pager struct {
	page    int
	total   int
	seq     uint64
	pending Request
	flight  inflight

	status    Status
	coins     []domain.Coin
	fromCache bool
	fetchedAt time.Time
	err       error
}

// NewPager creates a pager on page 1. total is the length of the page strip.
func NewPager(total int) *Pager {
	if total < 1 {
		total = 1
	}
	return &Pager{page: 1, total: total}
}

func (p *Pager) request() Request {
	p.seq++
	p.pending = Request{Page: p.page, Seq: p.seq, ctx: p.flight.next()}
	p.status = StatusLoading
	p.coins = nil
	p.err = nil
	p.fromCache = false
	return p.pending
}

// Load requests the current page, e.g. on first show
func (p *Pager) Load() Request {
	return p.request()
}

// GoToPage jumps to page n. It returns false when n is invalid or already current.
func (p *Pager) GoToPage(n int) (Request, bool) {
	if n < 1 || (n == p.page && p.status != StatusIdle) {
		return Request{}, false
	}
	p.page = n
	return p.request(), true
}

// Previous moves back one page, stopping at 1
func (p *Pager) Previous() (Request, bool) {
	return p.GoToPage(max(1, p.page-1))
}

// Next moves forward one page. It is not clamped to Total.
func (p *Pager) Next() (Request, bool) {
	return p.GoToPage(p.page + 1)
}

// Retry re-issues the current page after a failure
func (p *Pager) Retry() (Request, bool) {
	if p.status != StatusFailed {
		return Request{}, false
	}
	return p.request(), true
}

// Resolve applies a fetch result. Results for anything but the latest
// request are discarded and false is returned.
func (p *Pager) Resolve(req Request, page domain.Page, err error) bool {
	if p.status != StatusLoading || req != p.pending {
		return false
	}
	p.flight.release()
	if err != nil {
		p.status = StatusFailed
		p.err = err
		return true
	}
	p.status = StatusLoaded
	p.coins = page.Coins
	p.fromCache = page.FromCache
	p.fetchedAt = page.FetchedAt
	return true
}

// Page returns the current page number
func (p *Pager) Page() int { return p.page }

// Total returns the configured page count
func (p *Pager) Total() int { return p.total }

// Status returns the load state of the current page
func (p *Pager) Status() Status { return p.status }

// Coins returns the visible coins
func (p *Pager) Coins() []domain.Coin { return p.coins }

// Err returns the failure of the current page, if any
func (p *Pager) Err() error { return p.err }

// FromCache reports whether the visible page was served from the cache
func (p *Pager) FromCache() bool { return p.fromCache }

// FetchedAt returns when the visible page was fetched from the API
func (p *Pager) FetchedAt() time.Time { return p.fetchedAt }

// Strip returns the page numbers to show in the pagination strip: 1..Total,
// plus the current page when Next has moved past Total.
func (p *Pager) Strip() []int {
	n := p.total
	if p.page > n {
		n = p.page
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
