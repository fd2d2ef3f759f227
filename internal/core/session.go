package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/JonMunkholm/artviewer/internal/selection"
)

// maxPendingNotifications bounds the queue between renders. The oldest
// notification is dropped when a new one would exceed it.
const maxPendingNotifications = 16

var (
	// ErrNoPage is returned by page-scoped actions before any page has loaded.
	ErrNoPage = errors.New("no page loaded")

	// ErrStaleEvent is returned when a selection event refers to a page that
	// is no longer displayed.
	ErrStaleEvent = errors.New("selection event for stale page")
)

// loadFailed is the notification raised whenever a page fetch fails.
var loadFailed = Notification{
	Severity: SeverityError,
	Summary:  "Error",
	Detail:   "Failed to load artworks",
}

// Session is one user's viewer: the selection ledger, the displayed page and
// the notifications waiting to be shown. All methods are safe for concurrent
// use; the session lock serializes them the way a browser event loop would.
// Upstream fetches run without the lock so a slow page never blocks
// selection changes on the page that is still displayed.
type Session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	ledger   *selection.Ledger
	loader   *Loader
	notes    []Notification
	lastSeen time.Time
	logger   *slog.Logger
}

// NewSession creates a session with an empty ledger and no page loaded.
func NewSession(id string, source catalog.Source, limiter *FetchLimiter) *Session {
	now := time.Now()
	return &Session{
		id:       id,
		created:  now,
		ledger:   selection.NewLedger(),
		loader:   NewLoader(source, limiter),
		lastSeen: now,
		logger:   slog.Default().With("session_id", id),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.created
}

// LastSeen returns the time of the most recent interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// notify must be called with s.mu held.
func (s *Session) notify(n Notification) {
	if len(s.notes) >= maxPendingNotifications {
		s.notes = s.notes[1:]
	}
	s.notes = append(s.notes, n)
}

// Navigate loads page and makes it the displayed page. Requests above the
// last known page are clamped to it.
//
// If a newer navigation begins before this one completes, the result is
// discarded and ErrStaleResponse is returned. On fetch failure the displayed
// page is unchanged, an error notification is queued, and the fetch error is
// returned.
func (s *Session) Navigate(ctx context.Context, page int) error {
	if page < 1 {
		return &selection.ValidationError{Field: "page", Value: page, Min: 1}
	}

	s.mu.Lock()
	s.touch()
	if total := s.loader.Page().TotalPages; total > 0 && page > total {
		s.logger.Debug("clamping page request", "requested", page, "total_pages", total)
		page = total
	}
	req := s.loader.Begin(page)
	s.mu.Unlock()

	start := time.Now()
	fetched, fetchErr := s.loader.Fetch(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.loader.Complete(req, fetched, fetchErr)
	switch {
	case errors.Is(err, ErrStaleResponse):
		s.logger.Debug("discarded stale page response",
			"page", req.Page,
			"seq", req.Seq,
			"latest_seq", s.loader.Seq(),
		)
		return err
	case err != nil:
		s.logger.Error("page load failed",
			"page", req.Page,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		s.notify(loadFailed)
		return err
	}

	s.logger.Debug("page loaded",
		"page", req.Page,
		"items", s.loader.Page().Len(),
		"total_pages", s.loader.Page().TotalPages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// EnsureLoaded loads the first page if nothing has been loaded or requested
// yet.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	idle := s.loader.Page().Empty() && !s.loader.Loading()
	s.mu.Unlock()

	if !idle {
		return nil
	}
	return s.Navigate(ctx, 1)
}

// HandlePageEvent navigates to the page a paginator reported.
func (s *Session) HandlePageEvent(ctx context.Context, ev PageEvent) error {
	return s.Navigate(ctx, ev.Page())
}

// ApplySelection reconciles a table's checked set against the ledger.
// ev.Page of 0 means the displayed page.
func (s *Session) ApplySelection(ev SelectionEvent) (selection.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	page, err := s.displayed(ev.Page)
	if err != nil {
		return selection.Change{}, err
	}

	change := selection.Reconcile(s.ledger, page.IDs(), ev.Checked)
	s.logger.Debug("selection reconciled",
		"page", page.Number,
		"included", len(change.Included),
		"excluded", len(change.Excluded),
	)
	return change, nil
}

// SelectAllOnPage includes every row on the displayed page.
func (s *Session) SelectAllOnPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	page, err := s.displayed(0)
	if err != nil {
		return err
	}
	selection.SelectAll(s.ledger, page.IDs())
	return nil
}

// DeselectAllOnPage excludes every row on the displayed page.
func (s *Session) DeselectAllOnPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	page, err := s.displayed(0)
	if err != nil {
		return err
	}
	selection.DeselectAll(s.ledger, page.IDs())
	return nil
}

// SelectFirstNOnPage selects the first n eligible rows of the displayed page
// and queues an info notification with the number actually selected.
func (s *Session) SelectFirstNOnPage(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	page, err := s.displayed(0)
	if err != nil {
		return 0, err
	}

	selected, err := selection.SelectFirstN(s.ledger, page.IDs(), n)
	if err != nil {
		return 0, err
	}

	s.notify(Notification{
		Severity: SeverityInfo,
		Summary:  "Selection Updated",
		Detail:   selectedDetail(selected),
	})
	return selected, nil
}

// ClearSelection forgets every selection and deselection on every page.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.ledger.Clear()
	s.logger.Debug("selection cleared")
}

// SelectionSnapshot returns the ledger contents.
func (s *Session) SelectionSnapshot() selection.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// View renders the session into a snapshot and drains pending notifications.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	page := s.loader.Page()
	ids := page.IDs()

	rows := make([]Row, len(page.Items))
	for i, it := range page.Items {
		rows[i] = Row{Item: it, Selected: s.ledger.IsSelected(it.ID)}
	}

	notes := s.notes
	s.notes = nil
	if notes == nil {
		notes = []Notification{}
	}

	return View{
		SessionID:      s.id,
		Page:           page.Number,
		TotalPages:     page.TotalPages,
		TotalRecords:   totalRecords(page, catalog.PageSize),
		PageSize:       catalog.PageSize,
		Loading:        s.loader.Loading(),
		LoadingPage:    s.loader.Pending(),
		Rows:           rows,
		SelectedOnPage: s.ledger.CountEffective(ids),
		TotalSelected:  s.ledger.TotalSelected(),
		Notifications:  notes,
	}
}

// displayed returns the displayed page, checking it against want when want
// is non-zero. Must be called with s.mu held.
func (s *Session) displayed(want int) (catalog.Page, error) {
	page := s.loader.Page()
	if page.Empty() {
		return catalog.Page{}, ErrNoPage
	}
	if want != 0 && want != page.Number {
		s.logger.Debug("rejected selection for stale page", "event_page", want, "displayed_page", page.Number)
		return catalog.Page{}, ErrStaleEvent
	}
	return page, nil
}

func selectedDetail(n int) string {
	return fmt.Sprintf("Selected %d row(s)", n)
}
