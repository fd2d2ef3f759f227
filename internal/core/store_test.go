package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Minute)
	ctx := ContextWithIPAddress(context.Background(), "203.0.113.7")

	sess := store.Create(ctx)
	got, err := store.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestSessionStore_GetUnknown(t *testing.T) {
	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Minute)

	for _, id := range []string{"", "not-a-uuid", "6f1c1f8e-8a4b-4c55-9d57-3b1f7f0e2d11"} {
		if _, err := store.Get(id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Get(%q) = %v, want ErrSessionNotFound", id, err)
		}
	}
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Minute)
	ctx := context.Background()

	first, created := store.GetOrCreate(ctx, "")
	if !created {
		t.Error("expected a new session for an empty id")
	}

	again, created := store.GetOrCreate(ctx, first.ID())
	if created || again != first {
		t.Error("expected the existing session to be returned")
	}

	store.Close(first.ID())
	replaced, created := store.GetOrCreate(ctx, first.ID())
	if !created || replaced.ID() == first.ID() {
		t.Error("expected a fresh session after Close")
	}
}

func TestSessionStore_Reap(t *testing.T) {
	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Minute)
	ctx := context.Background()

	idle := store.Create(ctx)
	active := store.Create(ctx)

	later := time.Now().Add(2 * time.Minute)
	active.mu.Lock()
	active.lastSeen = later
	active.mu.Unlock()

	if got := store.Reap(later); got != 1 {
		t.Errorf("Reap() = %d, want 1", got)
	}
	if _, err := store.Get(idle.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if _, err := store.Get(active.ID()); err != nil {
		t.Errorf("active session was reaped: %v", err)
	}
}

func TestSessionStore_ReapLogsSessionAge(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Minute)
	sess := store.Create(context.Background())

	if got := store.Reap(sess.CreatedAt().Add(2 * time.Minute)); got != 1 {
		t.Fatalf("Reap() = %d, want 1", got)
	}

	out := buf.String()
	for _, want := range []string{"session expired", "session_id=" + sess.ID(), "age=2m0s", "idle=2m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionStore_ReaperStopsOnCancel(t *testing.T) {
	store := NewSessionStore(newFakeSource([]int{1}), nil, time.Millisecond)
	store.Create(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.StartSessionReaper(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("reaper never removed the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := ContextWithUserAgent(ContextWithIPAddress(context.Background(), "10.0.0.1"), "curl/8")
	if got := GetIPAddressFromContext(ctx); got != "10.0.0.1" {
		t.Errorf("IP = %q", got)
	}
	if got := GetUserAgentFromContext(ctx); got != "curl/8" {
		t.Errorf("UA = %q", got)
	}
	if got := GetIPAddressFromContext(context.Background()); got != "" {
		t.Errorf("empty context IP = %q", got)
	}
}
