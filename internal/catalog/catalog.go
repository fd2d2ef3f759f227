// Package catalog defines the artwork data model and the contract every
// page-oriented data source implements.
//
// A Source returns exactly one page per call. Sources never cache, never
// retry and never know anything about selection; the viewer holds only the
// page it is currently showing.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// PageSize is the fixed number of rows shown per page.
const PageSize = 12

// Item is a single artwork record. Items are immutable once fetched.
type Item struct {
	ID            int    `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	PlaceOfOrigin string `json:"place_of_origin" yaml:"place_of_origin"`
	ArtistDisplay string `json:"artist_display" yaml:"artist_display"`
	Inscriptions  string `json:"inscriptions" yaml:"inscriptions"`
	DateStart     int    `json:"date_start" yaml:"date_start"`
	DateEnd       int    `json:"date_end" yaml:"date_end"`
}

// Page is an ordered slice of items for one 1-based page number, plus the
// catalog's page count. A Page replaces the previous one wholesale.
type Page struct {
	Number     int    `json:"page"`
	Items      []Item `json:"items"`
	TotalPages int    `json:"total_pages"`
	Total      int    `json:"total"` // total record count, 0 if the source does not report it
}

// IDs returns the ids of the page's items in display order.
func (p Page) IDs() []int {
	ids := make([]int, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	return ids
}

// Len returns the number of items on the page.
func (p Page) Len() int {
	return len(p.Items)
}

// Empty reports whether the page has never been loaded.
func (p Page) Empty() bool {
	return p.Number == 0
}

// Source fetches a single page of the catalog.
type Source interface {
	FetchPage(ctx context.Context, page int) (Page, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, page int) (Page, error)

// FetchPage calls f(ctx, page).
func (f SourceFunc) FetchPage(ctx context.Context, page int) (Page, error) {
	return f(ctx, page)
}

// TransportError reports a failure reaching the data source or decoding its
// response. Status is the HTTP status when one was received, 0 otherwise.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("catalog %s: upstream status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("catalog %s: upstream status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrMalformedResponse marks a response that arrived but could not be decoded.
var ErrMalformedResponse = errors.New("malformed upstream response")

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// PageCount returns the number of pages needed for total records.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset returns the zero-based record offset of a 1-based page.
func Offset(page, size int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * size
}
