package core

// scheduler.go provides background jobs for session maintenance.
//
// The reaper discards sessions that have been idle longer than the store's
// idle timeout. It is long-running and context-aware for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultReapInterval is how often the reaper runs when none is configured.
const DefaultReapInterval = time.Minute

// StartSessionReaper runs the reaper every interval until ctx is cancelled.
// It blocks; run it in its own goroutine.
func (st *SessionStore) StartSessionReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReapInterval
	}

	slog.Info("session reaper started",
		"interval", interval.String(),
		"idle_timeout", st.IdleTimeout().String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session reaper stopped")
			return
		case now := <-ticker.C:
			st.runReapJob(now)
		}
	}
}

// runReapJob performs one reap cycle.
func (st *SessionStore) runReapJob(now time.Time) {
	start := time.Now()
	reaped := st.Reap(now)
	if reaped == 0 {
		slog.Debug("reap job completed", "sessions_reaped", 0)
		return
	}
	slog.Info("reaped idle sessions",
		"sessions_reaped", reaped,
		"active_sessions", st.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
