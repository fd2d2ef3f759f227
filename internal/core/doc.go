// Package core provides the session logic for the artwork viewer.
//
// This package is the heart of the viewer, containing all behavior
// independent of any UI or transport layer. The web server, the terminal
// browser and tests all drive it the same way.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Session: one user's viewer. It owns a selection ledger, the page
//     loader and a queue of notifications. Sessions serialize their own
//     methods; front ends never lock.
//   - Loader: fetches pages from a [catalog.Source] and discards any response
//     that is not for the most recent request.
//   - SessionStore: creates, looks up and reaps sessions by id.
//   - FetchLimiter: bounds concurrent upstream fetches across all sessions.
//
// # Events
//
// Front ends translate widget callbacks into typed events:
//
//	sess.HandlePageEvent(ctx, core.PageEvent{Index: 2}) // shows page 3
//	sess.ApplySelection(core.SelectionEvent{Page: 3, Checked: []int{41, 43}})
//
// and render from [Session.View], which also drains pending notifications.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - NET001-NET004: Upstream errors (status, malformed body, unreachable, timeout)
//   - VAL001-VAL002: Validation errors (row count, page number)
//   - SES001-SES003: Session errors (expired, stale page, nothing loaded)
//   - REQ001-REQ003: Request errors (cancelled, timed out, malformed)
//   - RATE001: Rate limiting
package core
