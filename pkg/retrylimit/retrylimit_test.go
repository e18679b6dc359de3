package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string   { return http.StatusText(int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func fastConfig(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, nil, fastConfig(5))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnFatal(t *testing.T) {
	calls := 0
	cause := errors.New("unauthorized")
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &FatalError{Err: cause}
	}, nil, fastConfig(5))
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	var seen []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, _ error) { seen = append(seen, attempt) }
	cause := errors.New("down")

	err := WithRetryConfig(context.Background(), func() error { return cause }, nil, cfg)
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
	if len(seen) != 3 {
		t.Fatalf("OnRetry saw %v", seen)
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := WithRetryMax(ctx, func() error { called = true; return nil }, nil, 3)
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}

func TestLimiterAdapts(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)

	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("after 429 limit = %v, want 2", got)
	}
	lim.RateLimited()
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("limit fell below min: %v", got)
	}

	// Success inside the cooldown window does not raise the rate.
	lim.Success()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("limit rose during cooldown: %v", got)
	}

	lim.cooldown = 0
	lim.lastError = time.Time{}
	for i := 0; i < 20; i++ {
		lim.Success()
	}
	if got := lim.CurrentLimit(); got != 8 {
		t.Fatalf("limit = %v, want max 8", got)
	}
}

func TestRetryFeedsLimiter(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls == 1 {
			return statusErr(http.StatusTooManyRequests)
		}
		return nil
	}, lim, fastConfig(3))
	if err != nil {
		t.Fatal(err)
	}
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("limit = %v, want 2 after one 429", got)
	}
}

func TestClassifiers(t *testing.T) {
	if !IsRateLimit(statusErr(429)) || IsRateLimit(statusErr(500)) {
		t.Fatal("IsRateLimit misclassified")
	}
	if !IsServerError(statusErr(503)) || IsServerError(statusErr(404)) || IsServerError(errors.New("x")) {
		t.Fatal("IsServerError misclassified")
	}
}
