// Package httpcache provides a network-first HTTP cache that serves stored
// responses when the upstream API cannot be reached in time.
package httpcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
)

// HeaderCache is set on responses served from the store
const HeaderCache = "X-Coinboard-Cache"

const (
	defaultNetworkTimeout = 3 * time.Second
	defaultMaxEntries     = 50
	defaultMaxAge         = 24 * time.Hour
)

// Options configures a NetworkFirst transport
type Options struct {
	// Prefix limits caching to request URLs starting with it. Empty matches everything.
	Prefix         string
	NetworkTimeout time.Duration
	MaxEntries     int
	MaxAge         time.Duration
}

// NetworkFirst is an http.RoundTripper that always tries the network and
// falls back to the last stored 200 response on error or timeout.
type NetworkFirst struct {
	next   http.RoundTripper
	store  domain.ResponseStore
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New wraps next (nil means http.DefaultTransport) with a network-first cache
func New(next http.RoundTripper, store domain.ResponseStore, opts Options, logger *slog.Logger) *NetworkFirst {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NetworkTimeout <= 0 {
		opts.NetworkTimeout = defaultNetworkTimeout
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultMaxAge
	}
	return &NetworkFirst{
		next:   next,
		store:  store,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

func (t *NetworkFirst) matches(req *http.Request) bool {
	return req.Method == http.MethodGet && strings.HasPrefix(req.URL.String(), t.opts.Prefix)
}

// RoundTrip implements http.RoundTripper
func (t *NetworkFirst) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.matches(req) {
		return t.next.RoundTrip(req)
	}

	key := req.URL.String()

	ctx, cancel := context.WithTimeout(req.Context(), t.opts.NetworkTimeout)
	defer cancel()

	resp, err := t.next.RoundTrip(req.WithContext(ctx))
	if err == nil {
		// Drain while the timeout context is still live
		var body []byte
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				t.save(key, resp, body)
			}
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))
			return resp, nil
		}
	}

	// A caller-side cancellation is not a network failure
	if req.Context().Err() != nil {
		return nil, err
	}

	if cached, ok := t.lookup(key); ok {
		t.logger.Warn("network failed, serving cached response", "url", key, "storedAt", cached.StoredAt, "error", err)
		return cachedResponse(req, cached), nil
	}
	return nil, err
}

func (t *NetworkFirst) save(key string, resp *http.Response, body []byte) {
	entry := domain.CachedResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   t.now(),
	}
	if err := t.store.SaveResponse(key, entry, t.opts.MaxEntries); err != nil {
		t.logger.Warn("failed to store response", "url", key, "error", err)
	}
}

func (t *NetworkFirst) lookup(key string) (domain.CachedResponse, bool) {
	cached, ok := t.store.GetResponse(key)
	if !ok {
		return cached, false
	}
	if t.now().Sub(cached.StoredAt) > t.opts.MaxAge {
		t.logger.Debug("cached response expired", "url", key, "storedAt", cached.StoredAt)
		return cached, false
	}
	return cached, true
}

func cachedResponse(req *http.Request, cached domain.CachedResponse) *http.Response {
	header := http.Header(cached.Header).Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(HeaderCache, "HIT")
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", cached.StatusCode, http.StatusText(cached.StatusCode)),
		StatusCode:    cached.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}
}
