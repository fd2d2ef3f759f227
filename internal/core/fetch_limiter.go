package core

// fetch_limiter.go bounds concurrent requests to the catalog source.
//
// Every session shares one limiter so a burst of page changes across many
// browser tabs cannot flood the upstream API. When all slots are occupied,
// new fetches wait up to maxWait before failing with ErrTooManyFetches.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyFetches is returned when all fetch slots are occupied and the
// wait timeout expires.
var ErrTooManyFetches = errors.New("too many catalog fetches in flight, upstream busy")

// DefaultMaxConcurrentFetches is the default limit for parallel fetches.
const DefaultMaxConcurrentFetches = 4

// DefaultMaxFetchWait is how long to wait for a slot before rejecting.
const DefaultMaxFetchWait = 10 * time.Second

// FetchLimiter controls concurrent upstream fetches using a semaphore.
type FetchLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewFetchLimiter creates a limiter that allows at most maxConcurrent
// simultaneous fetches.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxFetchWait
	}

	return &FetchLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a fetch slot.
// Returns nil on success, ErrTooManyFetches if the wait expires, or the
// context's error if ctx ends first. The caller MUST call Release after a
// successful Acquire.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyFetches
	}
}

// Release returns a slot.
// Must be called exactly once for each successful Acquire.
func (l *FetchLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of fetches in flight.
func (l *FetchLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no fetch is in flight or ctx ends.
func (l *FetchLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FetchLimiterStatus is a snapshot of the limiter's state.
type FetchLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *FetchLimiter) Status() FetchLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return FetchLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
