package web

// handlers_common.go contains shared utilities used across handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/artviewer/internal/core"
	"github.com/JonMunkholm/artviewer/internal/logging"
	"github.com/JonMunkholm/artviewer/internal/selection"
	"github.com/JonMunkholm/artviewer/internal/web/templates"
)

// maxBodySize bounds JSON and form bodies.
const maxBodySize = 1 << 20

var errInvalidRequest = errors.New("invalid request")

// loadOutcome filters a navigation error down to what should fail the
// request. Failed fetches are already queued as notifications and
// superseded responses are dropped, so only invalid input remains.
func loadOutcome(err error) error {
	var ve *selection.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return nil
}

// parseCount reads a positive row count from a form field.
func parseCount(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &selection.ValidationError{Field: "row count", Min: 1, Reason: "not a whole number"}
	}
	return n, nil
}

// parseIDs converts checkbox values to item ids.
func parseIDs(values []string) ([]int, error) {
	ids := make([]int, 0, len(values))
	for _, v := range values {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: item id %q", errInvalidRequest, v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeJSON decodes a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

// respondView finishes a browser action. HTMX requests get the viewer
// fragment; plain form posts are redirected back to the page so a reload
// never resubmits.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Viewer(sess.View()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render viewer", "error", err)
	}
}
