// Package ratelimit provides fixed-window admission control keyed by client.
package ratelimit

import (
	"errors"
	"time"
)

// ErrRateLimited is reported to clients when a request is denied and
// denials are configured to be surfaced.
var ErrRateLimited = errors.New("rate limited: too many requests")

type window struct {
	count int
	start time.Time
}

// Limiter counts requests per client in fixed windows. It is not safe for
// concurrent use; calls for a client must be serialized by the caller.
type Limiter struct {
	limit   int
	size    time.Duration
	now     func() time.Time
	windows map[string]*window
}

type Option func(*Limiter)

// WithClock overrides the limiter's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New returns a Limiter allowing limit requests per client in each window.
func New(limit int, size time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   limit,
		size:    size,
		now:     time.Now,
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryRequest admits one request for clientID, or returns false without
// changing state when the client's current window is full.
func (l *Limiter) TryRequest(clientID string) bool {
	now := l.now()

	w, ok := l.windows[clientID]
	if !ok {
		w = &window{start: now}
	}

	if now.Sub(w.start) >= l.size {
		w.count = 0
		w.start = now
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	l.windows[clientID] = w
	return true
}

// Forget drops the record for clientID.
func (l *Limiter) Forget(clientID string) {
	delete(l.windows, clientID)
}

// Len returns the number of clients being tracked.
func (l *Limiter) Len() int {
	return len(l.windows)
}
