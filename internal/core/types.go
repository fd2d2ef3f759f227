package core

import (
	"github.com/JonMunkholm/artviewer/internal/catalog"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a fire-and-forget message for the user (a toast in the
// browser, the status line in the terminal).
type Notification struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
}

// SelectionEvent is the typed form of a table's "selection changed" callback.
// Checked is the full set of rows checked after the change, not a delta.
// Page is the page number the widget was showing when it emitted the event.
type SelectionEvent struct {
	Page    int   `json:"page"`
	Checked []int `json:"checked"`
}

// PageEvent is the typed form of a table's "page changed" callback.
// Index is zero-based, as pagination widgets report it.
type PageEvent struct {
	Index int `json:"index"`
}

// Page returns the 1-based page number for the event.
func (e PageEvent) Page() int {
	return e.Index + 1
}

// Row is one visible item with its derived selection state.
type Row struct {
	catalog.Item
	Selected bool `json:"selected"`
}

// View is everything a renderer needs for one frame. It is a snapshot; later
// session changes do not alter it.
type View struct {
	SessionID      string         `json:"session_id"`
	Page           int            `json:"page"`
	TotalPages     int            `json:"total_pages"`
	TotalRecords   int            `json:"total_records"`
	PageSize       int            `json:"page_size"`
	Loading        bool           `json:"loading"`
	LoadingPage    int            `json:"loading_page,omitempty"`
	Rows           []Row          `json:"rows"`
	SelectedOnPage int            `json:"selected_on_page"`
	TotalSelected  int            `json:"total_selected"`
	Notifications  []Notification `json:"notifications"`
}

// First returns the 1-based index of the first visible record, 0 if none.
func (v View) First() int {
	if len(v.Rows) == 0 {
		return 0
	}
	return catalog.Offset(v.Page, v.PageSize) + 1
}

// Last returns the 1-based index of the last visible record, 0 if none.
func (v View) Last() int {
	if len(v.Rows) == 0 {
		return 0
	}
	return catalog.Offset(v.Page, v.PageSize) + len(v.Rows)
}

// HasPrev reports whether a previous page exists.
func (v View) HasPrev() bool {
	return v.Page > 1
}

// HasNext reports whether a next page exists.
func (v View) HasNext() bool {
	return v.Page > 0 && v.Page < v.TotalPages
}

// MaxCustom is the upper bound for the custom-count input.
func (v View) MaxCustom() int {
	return len(v.Rows)
}

// AllSelected reports whether every visible row is selected.
func (v View) AllSelected() bool {
	return len(v.Rows) > 0 && v.SelectedOnPage == len(v.Rows)
}

// totalRecords falls back to pages*size when the source did not report a
// record count.
func totalRecords(p catalog.Page, size int) int {
	if p.Total > 0 {
		return p.Total
	}
	return p.TotalPages * size
}
