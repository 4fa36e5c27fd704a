// Package retry re-runs operations that fail with transient errors.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/bidcraft/internal/model"
)

// Policy bounds the retry loop.
type Policy struct {
	MaxRetries int           // additional attempts after the first failure
	BaseDelay  time.Duration // delay before the first retry, doubled on each subsequent retry
	MaxDelay   time.Duration // upper bound on any single wait; 0 = unbounded
}

// DefaultPolicy is used for webhook deliveries.
var DefaultPolicy = Policy{MaxRetries: 2, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

// Do calls fn, retrying transient failures with exponential backoff and
// jitter. It returns nil on the first success, or the last error.
func Do(ctx context.Context, p Policy, logger *slog.Logger, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}

	if !isRetryable(err) {
		return err
	}

	lastErr := err
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		logger.Warn("retrying after transient error",
			"attempt", attempt,
			"max_retries", p.MaxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

// backoffDelay returns the wait before retry number attempt. A Retry-After
// hint from the server wins over the exponential schedule (BaseDelay doubled
// per attempt, ±30% jitter). Both are bounded by MaxDelay when set.
func (p Policy) backoffDelay(attempt int, err error) time.Duration {
	var delay time.Duration
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		delay = httpErr.RetryAfter
	} else {
		base := p.BaseDelay << (attempt - 1)
		jitter := (rand.Float64()*2 - 1) * 0.3 * float64(base)
		delay = base + time.Duration(jitter)
	}

	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// isRetryable reports whether err is a transient failure: a network error,
// HTTP 429 or a 5xx. Context errors and other 4xx responses are final.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		return true
	}
	switch {
	case httpErr.StatusCode == http.StatusTooManyRequests:
		return true
	case httpErr.StatusCode >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}
