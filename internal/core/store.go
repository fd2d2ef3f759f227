package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/artviewer/internal/catalog"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionIdleTimeout is how long a session survives without activity.
const DefaultSessionIdleTimeout = 30 * time.Minute

// SessionStore owns every live session. Sessions live in memory only and are
// lost on restart; selection state is never persisted.
type SessionStore struct {
	source      catalog.Source
	limiter     *FetchLimiter
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a store whose sessions fetch from source through
// the shared limiter.
func NewSessionStore(source catalog.Source, limiter *FetchLimiter, idleTimeout time.Duration) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionStore{
		source:      source,
		limiter:     limiter,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*Session),
	}
}

// Create starts a new session with a random id.
func (st *SessionStore) Create(ctx context.Context) *Session {
	sess := NewSession(uuid.NewString(), st.source, st.limiter)

	st.mu.Lock()
	st.sessions[sess.ID()] = sess
	count := len(st.sessions)
	st.mu.Unlock()

	slog.Info("session created",
		"session_id", sess.ID(),
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
		"active_sessions", count,
	)
	return sess
}

// Get returns the session for id, or ErrSessionNotFound.
func (st *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate returns the session for id, creating a fresh one when id is
// empty, unknown or expired. created reports whether a new session was made.
func (st *SessionStore) GetOrCreate(ctx context.Context, id string) (sess *Session, created bool) {
	if id != "" {
		if sess, err := st.Get(id); err == nil {
			return sess, false
		}
	}
	return st.Create(ctx), true
}

// Close discards the session for id. Unknown ids are ignored.
func (st *SessionStore) Close(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// IdleTimeout returns the configured idle timeout.
func (st *SessionStore) IdleTimeout() time.Duration {
	return st.idleTimeout
}

// Limiter returns the shared fetch limiter.
func (st *SessionStore) Limiter() *FetchLimiter {
	return st.limiter
}

// Reap discards sessions idle since before now minus the idle timeout and
// returns how many were removed.
func (st *SessionStore) Reap(now time.Time) int {
	cutoff := now.Add(-st.idleTimeout)

	st.mu.RLock()
	var expired []string
	for id, sess := range st.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	removed := 0
	st.mu.Lock()
	for _, id := range expired {
		if sess, ok := st.sessions[id]; ok && sess.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
			slog.Debug("session expired",
				"session_id", id,
				"age", now.Sub(sess.CreatedAt()).Round(time.Second).String(),
				"idle", now.Sub(sess.LastSeen()).Round(time.Second).String(),
			)
		}
	}
	st.mu.Unlock()

	return removed
}
