// Package ratelimit tracks failed authentication attempts per identifier and
// temporarily blocks further attempts. State is in-memory only; a process
// restart clears all history, which is an accepted limitation.
package ratelimit

import (
	"sync"
	"time"
)

type record struct {
	attempts     int
	windowStart  time.Time
	blockedUntil time.Time
}

// Limiter is an in-memory attempt limiter keyed by identifier.
type Limiter struct {
	maxAttempts   int
	window        time.Duration
	blockDuration time.Duration

	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

// New creates a limiter allowing maxAttempts within window before blocking
// the identifier for blockDuration.
func New(maxAttempts int, window, blockDuration time.Duration) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if blockDuration <= 0 {
		blockDuration = time.Hour
	}
	return &Limiter{
		maxAttempts:   maxAttempts,
		window:        window,
		blockDuration: blockDuration,
		records:       make(map[string]*record),
		now:           time.Now,
	}
}

// Attempt registers an attempt for the identifier and reports whether it is
// currently blocked. The first attempt opens a tracking window; once the
// window elapses the count starts over.
func (l *Limiter) Attempt(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[id]
	if !ok {
		l.records[id] = &record{attempts: 1, windowStart: now}
		return false
	}

	if !rec.blockedUntil.IsZero() && now.Before(rec.blockedUntil) {
		return true
	}

	if now.Sub(rec.windowStart) > l.window {
		l.records[id] = &record{attempts: 1, windowStart: now}
		return false
	}

	rec.attempts++
	if rec.attempts > l.maxAttempts {
		rec.blockedUntil = now.Add(l.blockDuration)
		return true
	}

	return false
}

// Reset clears tracking for the identifier. Called on successful login.
func (l *Limiter) Reset(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, id)
}
