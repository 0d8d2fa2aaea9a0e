package retry

import (
	"context"
	"math"
	"time"
)

type Operation = func() error

// Config controls the retry loop. The delay before attempt n+1 is
// BaseDelay * Factor^n, capped at MaxDelay. Attempts are counted from 1.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	MaxDelay    time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Factor:      2,
		MaxDelay:    60 * time.Second,
	}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op until it succeeds, the attempt cap is reached, or ctx is
// cancelled. The last operation error is returned on exhaustion.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == r.config.MaxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delay(attempt)):
		}
	}
	return err
}

func (r *Retrier) delay(attempt int) time.Duration {
	d := time.Duration(float64(r.config.BaseDelay) * math.Pow(r.config.Factor, float64(attempt)))
	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}
	return d
}
