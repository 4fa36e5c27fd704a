package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/bidcraft/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fastPolicy = Policy{MaxRetries: 2, BaseDelay: 10 * time.Millisecond}

// counter calls a function on each invocation, tracking call count.
type counter struct {
	calls int
	fn    func(attempt int) error
}

func (c *counter) run(_ context.Context) error {
	c.calls++
	return c.fn(c.calls)
}

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	c := &counter{fn: func(int) error { return nil }}

	if err := Do(context.Background(), fastPolicy, discardLogger(), c.run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call, got %d", c.calls)
	}
}

func TestDo_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	c := &counter{fn: func(attempt int) error {
		if attempt == 1 {
			return &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return nil
	}}

	if err := Do(context.Background(), fastPolicy, discardLogger(), c.run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", c.calls)
	}
}

func TestDo_HonoursRetryAfter(t *testing.T) {
	c := &counter{fn: func(attempt int) error {
		if attempt == 1 {
			return &model.HTTPError{StatusCode: 429, RetryAfter: 30 * time.Millisecond}
		}
		return nil
	}}

	start := time.Now()
	if err := Do(context.Background(), Policy{MaxRetries: 1, BaseDelay: time.Millisecond}, discardLogger(), c.run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("expected to wait for Retry-After, waited %v", elapsed)
	}
}

func TestDo_DoesNotRetryOn4xx(t *testing.T) {
	c := &counter{fn: func(int) error {
		return &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	err := Do(context.Background(), fastPolicy, discardLogger(), c.run)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError with status 404, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", c.calls)
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	c := &counter{fn: func(int) error {
		return &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	if err := Do(context.Background(), fastPolicy, discardLogger(), c.run); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if c.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", c.calls)
	}
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	c := &counter{fn: func(int) error {
		return &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Policy{MaxRetries: 2, BaseDelay: time.Second}, discardLogger(), c.run)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", c.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errors.New("connection reset"), true},
		{"429", &model.HTTPError{StatusCode: 429}, true},
		{"502", &model.HTTPError{StatusCode: 502}, true},
		{"400", &model.HTTPError{StatusCode: 400}, false},
		{"deadline", context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("%s: isRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBackoffDelay(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		attempt  int
		err      error
		min, max time.Duration
	}{
		{"first retry", 1, plain, 70 * time.Millisecond, 130 * time.Millisecond},
		{"doubles", 3, plain, 280 * time.Millisecond, 520 * time.Millisecond},
		{"capped", 10, plain, time.Second, time.Second},
		{"retry-after wins", 1, &model.HTTPError{StatusCode: 429, RetryAfter: 700 * time.Millisecond}, 700 * time.Millisecond, 700 * time.Millisecond},
		{"retry-after capped", 1, &model.HTTPError{StatusCode: 429, RetryAfter: time.Minute}, time.Second, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.backoffDelay(tt.attempt, tt.err)
			if got < tt.min || got > tt.max {
				t.Errorf("backoffDelay = %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestDo_RetryAfterBoundedByMaxDelay(t *testing.T) {
	c := &counter{fn: func(attempt int) error {
		if attempt == 1 {
			return &model.HTTPError{StatusCode: 429, RetryAfter: time.Hour}
		}
		return nil
	}}

	p := Policy{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}
	start := time.Now()
	if err := Do(context.Background(), p, discardLogger(), c.run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Retry-After not bounded, waited %v", elapsed)
	}
}
