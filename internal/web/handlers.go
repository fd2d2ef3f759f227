package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/JonMunkholm/artviewer/internal/logging"
	"github.com/JonMunkholm/artviewer/internal/web/templates"
)

// handleHealth reports liveness plus session and fetch-slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
		"fetches":  s.store.Limiter().Status(),
	})
}

// handleIndex renders the full viewer, loading the first page on first visit.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := loadOutcome(sess.EnsureLoaded(r.Context())); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(sess.View()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handlePage navigates to the page a paginator button reported. The form
// sends a zero-based "index" the way pagination widgets do; a 1-based
// "page" is accepted for hand-written links.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var navErr error
	switch {
	case r.FormValue("index") != "":
		idx, err := strconv.Atoi(r.FormValue("index"))
		if err != nil {
			s.respondError(w, r, errors.Join(errInvalidRequest, err), http.StatusBadRequest)
			return
		}
		navErr = sess.HandlePageEvent(r.Context(), core.PageEvent{Index: idx})
	case r.FormValue("page") != "":
		page, err := strconv.Atoi(r.FormValue("page"))
		if err != nil {
			s.respondError(w, r, errors.Join(errInvalidRequest, err), http.StatusBadRequest)
			return
		}
		navErr = sess.Navigate(r.Context(), page)
	default:
		s.respondError(w, r, errInvalidRequest, http.StatusBadRequest)
		return
	}

	if err := loadOutcome(navErr); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, sess)
}

// handleSelection applies the table's full checked set for the page it
// was showing.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errors.Join(errInvalidRequest, err), http.StatusBadRequest)
		return
	}
	page, err := strconv.Atoi(r.PostForm.Get("page"))
	if err != nil {
		s.respondError(w, r, errors.Join(errInvalidRequest, err), http.StatusBadRequest)
		return
	}
	checked, err := parseIDs(r.PostForm["checked"])
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if _, err := sess.ApplySelection(core.SelectionEvent{Page: page, Checked: checked}); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, sess)
}

func (s *Server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.SelectAllOnPage(); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, sess)
}

func (s *Server) handleDeselectAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.DeselectAllOnPage(); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, sess)
}

// handleSelectFirst runs the custom-count selection.
func (s *Server) handleSelectFirst(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	n, err := parseCount(r, "count")
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if _, err := sess.SelectFirstNOnPage(n); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.respondView(w, r, sess)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.ClearSelection()
	s.respondView(w, r, sess)
}
