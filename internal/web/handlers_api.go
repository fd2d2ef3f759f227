package web

import (
	"net/http"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/JonMunkholm/artviewer/internal/selection"
)

// apiPageRequest accepts either a zero-based paginator index or a 1-based
// page number.
type apiPageRequest struct {
	Index *int `json:"index,omitempty"`
	Page  *int `json:"page,omitempty"`
}

type apiSelectFirstRequest struct {
	Count int `json:"count"`
}

type apiSelectionResponse struct {
	Change selection.Change `json:"change"`
	View   core.View        `json:"view"`
}

type apiSelectFirstResponse struct {
	Selected int       `json:"selected"`
	View     core.View `json:"view"`
}

type apiSnapshotResponse struct {
	selection.Snapshot
	TotalSelected int `json:"total_selected"`
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := loadOutcome(sess.EnsureLoaded(r.Context())); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// handleAPIPage navigates and returns the resulting view. A failed fetch is
// not an HTTP error: the view carries the error notification and the page
// that is still displayed.
func (s *Server) handleAPIPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req apiPageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var navErr error
	switch {
	case req.Index != nil:
		navErr = sess.HandlePageEvent(r.Context(), core.PageEvent{Index: *req.Index})
	case req.Page != nil:
		navErr = sess.Navigate(r.Context(), *req.Page)
	default:
		s.respondError(w, r, errInvalidRequest, http.StatusBadRequest)
		return
	}

	if err := loadOutcome(navErr); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleAPISelection(w http.ResponseWriter, r *http.Request) {
	snap := sessionFrom(r.Context()).SelectionSnapshot()
	writeJSON(w, http.StatusOK, apiSnapshotResponse{
		Snapshot:      snap,
		TotalSelected: snap.TotalSelected(),
	})
}

func (s *Server) handleAPIApplySelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var ev core.SelectionEvent
	if err := decodeJSON(w, r, &ev); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	change, err := sess.ApplySelection(ev)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, apiSelectionResponse{Change: change, View: sess.View()})
}

func (s *Server) handleAPISelectAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.SelectAllOnPage(); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleAPIDeselectAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.DeselectAllOnPage(); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleAPISelectFirst(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req apiSelectFirstRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	n, err := sess.SelectFirstNOnPage(req.Count)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, apiSelectFirstResponse{Selected: n, View: sess.View()})
}

func (s *Server) handleAPIClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ClearSelection()
	writeJSON(w, http.StatusOK, sess.View())
}

// handleAPICloseSession discards the caller's session and its selection.
func (s *Server) handleAPICloseSession(w http.ResponseWriter, r *http.Request) {
	s.store.Close(sessionFrom(r.Context()).ID())
	w.WriteHeader(http.StatusNoContent)
}
