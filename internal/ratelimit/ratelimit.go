// Package ratelimit enforces a minimum interval between events that share a key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// sweepThreshold is the number of tracked keys above which stale entries are dropped.
const sweepThreshold = 1024

// KeyedLimiter enforces a minimum delay between events with the same key,
// e.g. requests from one client address or posts to one webhook.
type KeyedLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
	now      func() time.Time
}

// NewKeyedLimiter creates a limiter that enforces minDelay between
// consecutive events with the same key. A zero minDelay allows everything.
func NewKeyedLimiter(minDelay time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
		now:      time.Now,
	}
}

// Allow reports whether an event for key may proceed now and, if so, records it.
// It never blocks.
func (r *KeyedLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if last, ok := r.lastCall[key]; ok && now.Sub(last) < r.minDelay {
		return false
	}
	r.lastCall[key] = now
	r.sweep(now)
	return true
}

// Wait blocks until enough time has passed since the last event for key.
// Returns an error if the context is cancelled while waiting.
func (r *KeyedLimiter) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	last, ok := r.lastCall[key]
	now := r.now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[key] = now
		r.mu.Unlock()
		return nil
	}

	// Reserve the next slot so concurrent waiters queue up behind it.
	next := last.Add(r.minDelay)
	r.lastCall[key] = next
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(next.Sub(now)):
	}
	return nil
}

// sweep drops keys whose last event is older than minDelay. Callers hold mu.
func (r *KeyedLimiter) sweep(now time.Time) {
	if len(r.lastCall) <= sweepThreshold {
		return
	}
	for k, t := range r.lastCall {
		if now.Sub(t) >= r.minDelay {
			delete(r.lastCall, k)
		}
	}
}
