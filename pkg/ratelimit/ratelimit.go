// Package ratelimit implements a fixed-window per-client request
// limiter. State lives in memory and dies with the process.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter counts requests per client key inside a fixed window. When
// the window elapses the counter resets.
type Limiter struct {
	mu      sync.Mutex
	quota   int
	window  time.Duration
	clients map[string]*windowState
	now     func() time.Time
}

type windowState struct {
	count   int
	resetAt time.Time
}

// NewLimiter creates a limiter allowing quota requests per window.
func NewLimiter(quota int, window time.Duration) *Limiter {
	return &Limiter{
		quota:   quota,
		window:  window,
		clients: make(map[string]*windowState),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it fits the
// current window. When rejected, retryAfter is the time until the
// window resets.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, exists := l.clients[key]
	if !exists || now.After(state.resetAt) {
		l.clients[key] = &windowState{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if state.count >= l.quota {
		return false, state.resetAt.Sub(now)
	}
	state.count++
	return true, 0
}

// Remaining reports how many requests key has left in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, exists := l.clients[key]
	if !exists || l.now().After(state.resetAt) {
		return l.quota
	}
	remaining := l.quota - state.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears all client windows.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clients = make(map[string]*windowState)
}

// SetClock overrides the time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
