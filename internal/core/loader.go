package core

// loader.go fetches pages and guarantees that only the most recent request
// can change what is displayed.
//
// Every request is tagged with a sequence number when it begins. When a
// fetch completes, its result is applied only if no newer request has begun
// in the meantime; otherwise it is dropped with ErrStaleResponse. This keeps
// a slow response for page 2 from overwriting page 3 after the user has
// moved on.
//
// The loader is not safe for concurrent use. Begin and Complete must be
// called under the owning session's lock; Fetch must be called without it.

import (
	"context"
	"errors"

	"github.com/JonMunkholm/artviewer/internal/catalog"
)

// ErrStaleResponse is returned by Complete when a newer request has begun
// since the completing request was issued.
var ErrStaleResponse = errors.New("stale response discarded")

// Request identifies one in-flight page load.
type Request struct {
	Seq  uint64
	Page int
}

// Loader holds the displayed page and the state of the latest load.
type Loader struct {
	source  catalog.Source
	limiter *FetchLimiter

	seq     uint64
	loading bool
	pending int
	page    catalog.Page
}

// NewLoader creates a loader over source. limiter may be nil, in which case
// fetches are not throttled.
func NewLoader(source catalog.Source, limiter *FetchLimiter) *Loader {
	return &Loader{
		source:  source,
		limiter: limiter,
	}
}

// Begin starts a new load for page, superseding any load in flight.
func (l *Loader) Begin(page int) Request {
	l.seq++
	l.loading = true
	l.pending = page
	return Request{Seq: l.seq, Page: page}
}

// Fetch performs the upstream call for req. It touches no loader state.
func (l *Loader) Fetch(ctx context.Context, req Request) (catalog.Page, error) {
	if l.limiter != nil {
		if err := l.limiter.Acquire(ctx); err != nil {
			return catalog.Page{}, err
		}
		defer l.limiter.Release()
	}
	return l.source.FetchPage(ctx, req.Page)
}

// Complete applies the outcome of req. A stale completion changes nothing
// and returns ErrStaleResponse. Otherwise the loading flag is cleared and,
// on success, the displayed page is replaced wholesale. On failure the
// displayed page is left as it was and fetchErr is returned.
func (l *Loader) Complete(req Request, page catalog.Page, fetchErr error) error {
	if req.Seq != l.seq {
		return ErrStaleResponse
	}

	l.loading = false
	l.pending = 0

	if fetchErr != nil {
		return fetchErr
	}

	if page.Number == 0 {
		page.Number = req.Page
	}
	if page.Items == nil {
		page.Items = []catalog.Item{}
	}
	l.page = page
	return nil
}

// Load runs Begin, Fetch and Complete back to back. It is for callers that
// serialize loads themselves, such as the terminal front end's command loop.
func (l *Loader) Load(ctx context.Context, page int) error {
	req := l.Begin(page)
	fetched, err := l.Fetch(ctx, req)
	return l.Complete(req, fetched, err)
}

// Page returns the displayed page.
func (l *Loader) Page() catalog.Page {
	return l.page
}

// Loading reports whether the latest request is still outstanding.
func (l *Loader) Loading() bool {
	return l.loading
}

// Pending returns the page number being loaded, 0 when idle.
func (l *Loader) Pending() int {
	return l.pending
}

// Seq returns the sequence number of the latest request.
func (l *Loader) Seq() uint64 {
	return l.seq
}
