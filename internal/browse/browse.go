// Package browse holds the paging state behind the two coin views: a
// page-jump Pager for wide terminals and an accumulating Feed for narrow ones.
//
// Neither type performs I/O. Every cursor change returns a Request that the
// caller fetches and hands back through Resolve. Requests carry a sequence
// tag so that responses for abandoned requests are dropped, and a context
// that is cancelled once the request is replaced.
package browse

import "context"

// Request asks the caller to fetch one page
type Request struct {
	Page int
	Seq  uint64

	ctx context.Context
}

// Context is cancelled when a newer request replaces this one.
// Fetches should derive their context from it.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// inflight tracks the cancel func of the pending request
type inflight struct {
	cancel context.CancelFunc
}

// next cancels the previous request and returns a context for the new one
func (i *inflight) next() context.Context {
	i.release()
	ctx, cancel := context.WithCancel(context.Background())
	i.cancel = cancel
	return ctx
}

// release cancels the pending request, if any
func (i *inflight) release() {
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
	}
}

// Status is the load state of a view region
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}
