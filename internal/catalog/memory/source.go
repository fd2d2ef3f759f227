// Package memory serves the catalog from an in-process item list. The
// default list is the embedded demo catalog, which lets the viewer run
// without hitting the upstream API's rate limits.
package memory

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed artworks.yaml
var demoYAML []byte

type demoFile struct {
	Artworks []catalog.Item `yaml:"artworks"`
}

// DemoItems decodes the embedded demo catalog.
func DemoItems() ([]catalog.Item, error) {
	var f demoFile
	if err := yaml.Unmarshal(demoYAML, &f); err != nil {
		return nil, fmt.Errorf("decode demo catalog: %w", err)
	}
	return f.Artworks, nil
}

// Source pages over a fixed item slice.
type Source struct {
	items    []catalog.Item
	pageSize int
}

// New returns a Source over items. A non-positive pageSize uses catalog.PageSize.
func New(items []catalog.Item, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = catalog.PageSize
	}
	cp := make([]catalog.Item, len(items))
	copy(cp, items)
	return &Source{items: cp, pageSize: pageSize}
}

// NewDemo returns a Source over the embedded demo catalog.
func NewDemo() (*Source, error) {
	items, err := DemoItems()
	if err != nil {
		return nil, err
	}
	return New(items, catalog.PageSize), nil
}

// FetchPage returns the requested page. Pages past the end are empty.
func (s *Source) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Page{}, &catalog.TransportError{Op: fmt.Sprintf("fetch page %d", page), Err: err}
	}

	start := catalog.Offset(page, s.pageSize)
	end := min(start+s.pageSize, len(s.items))

	out := []catalog.Item{}
	if start < len(s.items) {
		out = make([]catalog.Item, end-start)
		copy(out, s.items[start:end])
	}

	return catalog.Page{
		Number:     page,
		Items:      out,
		TotalPages: catalog.PageCount(len(s.items), s.pageSize),
		Total:      len(s.items),
	}, nil
}

// Items returns a copy of every item in the source.
func (s *Source) Items() []catalog.Item {
	cp := make([]catalog.Item, len(s.items))
	copy(cp, s.items)
	return cp
}
