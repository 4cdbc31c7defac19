package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	current := start
	l := New(5, 15*time.Minute, time.Hour)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(time.Now())

	for i := 0; i < 5; i++ {
		assert.False(t, l.Attempt("teacher1"), "attempt %d should pass", i+1)
	}
}

func TestLimiterBlocksSixthAttempt(t *testing.T) {
	l, clock := newTestLimiter(time.Now())

	for i := 0; i < 5; i++ {
		l.Attempt("teacher1")
	}
	assert.True(t, l.Attempt("teacher1"))

	// Still blocked before the hour is up.
	*clock = clock.Add(30 * time.Minute)
	assert.True(t, l.Attempt("teacher1"))
}

func TestLimiterWindowExpiryResetsCount(t *testing.T) {
	l, clock := newTestLimiter(time.Now())

	for i := 0; i < 4; i++ {
		l.Attempt("teacher1")
	}
	*clock = clock.Add(16 * time.Minute)
	assert.False(t, l.Attempt("teacher1"))
	assert.False(t, l.Attempt("teacher1"))
}

func TestLimiterBlockExpires(t *testing.T) {
	l, clock := newTestLimiter(time.Now())

	for i := 0; i < 6; i++ {
		l.Attempt("teacher1")
	}
	*clock = clock.Add(61 * time.Minute)
	assert.False(t, l.Attempt("teacher1"))
}

func TestLimiterResetClearsRecord(t *testing.T) {
	l, _ := newTestLimiter(time.Now())

	for i := 0; i < 6; i++ {
		l.Attempt("teacher1")
	}
	l.Reset("teacher1")
	assert.False(t, l.Attempt("teacher1"))
}

func TestLimiterTracksIdentifiersIndependently(t *testing.T) {
	l, _ := newTestLimiter(time.Now())

	for i := 0; i < 6; i++ {
		l.Attempt("teacher1")
	}
	assert.False(t, l.Attempt("teacher2"))
}
