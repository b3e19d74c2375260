// Package ratelimit admits or rejects requests per client over a sliding window.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is the span over which requests are counted.
	DefaultWindow = 60 * time.Second
	// DefaultMaxRequests is the number of requests admitted per window.
	DefaultMaxRequests = 10
)

// Limiter counts admitted requests per client over a sliding window. Each
// Admit call prunes timestamps older than the window before checking the
// count, so bursts straddling a bucket boundary cannot double-spend.
type Limiter struct {
	window time.Duration
	max    int

	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewLimiter creates a limiter. Non-positive arguments fall back to the defaults.
func NewLimiter(window time.Duration, max int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxRequests
	}
	return &Limiter{
		window:  window,
		max:     max,
		windows: make(map[string][]time.Time),
	}
}

// Admit reports whether clientID may proceed at time now. Rejected calls are
// not recorded, so hammering a closed window does not extend the lockout.
func (l *Limiter) Admit(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.windows[clientID][:0]
	for _, ts := range l.windows[clientID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.windows[clientID] = kept
		return false
	}
	l.windows[clientID] = append(kept, now)
	return true
}

// PruneIdle drops clients whose entire window has expired. Callers run this
// periodically so idle clients do not accumulate for the process lifetime.
func (l *Limiter) PruneIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for id, window := range l.windows {
		active := false
		for _, ts := range window {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		if !active {
			delete(l.windows, id)
		}
	}
}

// Size returns the number of clients currently tracked.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
