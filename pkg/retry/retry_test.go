package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		Factor:      2,
		MaxDelay:    50 * time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(fastConfig(5))

	counter := 0
	err := retrier.Do(ctx, func() error {
		counter++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(fastConfig(5))

	counter := 0
	err := retrier.Do(ctx, func() error {
		counter++
		if counter < 3 {
			return errors.New("temporary error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 3 {
		t.Errorf("expected 3 attempts, got %d", counter)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(fastConfig(3))

	expectedErr := errors.New("permanent error")
	counter := 0
	err := retrier.Do(ctx, func() error {
		counter++
		return expectedErr
	})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if counter != 3 {
		t.Errorf("expected 3 attempts, got %d", counter)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewRetrier(&Config{
		MaxAttempts: 5,
		BaseDelay:   10 * time.Second,
		Factor:      2,
		MaxDelay:    time.Minute,
	})

	start := time.Now()
	err := retrier.Do(ctx, func() error {
		cancel() // cancel while the retrier is about to back off
		return errors.New("operation error after cancel")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation did not interrupt the backoff wait")
	}
}

func TestRetry_BackoffGrowth(t *testing.T) {
	// Delay before attempt n+1 must be BaseDelay * Factor^n.
	cfg := &Config{
		MaxAttempts: 3,
		BaseDelay:   20 * time.Millisecond,
		Factor:      2,
		MaxDelay:    time.Second,
	}
	retrier := NewRetrier(cfg)

	start := time.Now()
	counter := 0
	_ = retrier.Do(context.Background(), func() error {
		counter++
		return errors.New("error")
	})
	elapsed := time.Since(start)

	// Two waits: 20ms*2 + 20ms*4 = 120ms.
	wantMin := 120 * time.Millisecond
	if elapsed < wantMin {
		t.Errorf("expected at least %v of backoff, got %v", wantMin, elapsed)
	}
	if counter != 3 {
		t.Errorf("expected 3 attempts, got %d", counter)
	}
}

func TestRetry_MaxDelayCap(t *testing.T) {
	cfg := &Config{
		MaxAttempts: 4,
		BaseDelay:   10 * time.Millisecond,
		Factor:      10,
		MaxDelay:    15 * time.Millisecond,
	}
	r := NewRetrier(cfg)
	for attempt := 1; attempt < cfg.MaxAttempts; attempt++ {
		if d := r.delay(attempt); d > cfg.MaxDelay {
			t.Errorf("delay(%d) = %v exceeds cap %v", attempt, d, cfg.MaxDelay)
		}
	}
}
