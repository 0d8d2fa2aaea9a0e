package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/atlas/internal/config"
)

type fakeGenerator struct {
	calls    int
	failures int
	reply    string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("fetch failed")
	}
	return f.reply, nil
}

func fastGenerateConfig() *config.GenerateConfig {
	return &config.GenerateConfig{
		MaxAttempts: 5,
		BackoffBase: time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
		Timeout:     time.Second,
	}
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "olá!"}
	c := NewClient(gen, fastGenerateConfig())

	reply := c.Generate(context.Background(), "oi")
	if reply.Offline {
		t.Error("successful generation marked offline")
	}
	if reply.Text != "olá!" {
		t.Errorf("unexpected text %q", reply.Text)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 call, got %d", gen.calls)
	}
}

func TestGenerateRecoversWithinBudget(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{failures: 3, reply: "demorou mas foi"}
	c := NewClient(gen, fastGenerateConfig())

	reply := c.Generate(context.Background(), "oi")
	if reply.Offline {
		t.Error("recovered generation marked offline")
	}
	if gen.calls != 4 {
		t.Errorf("expected 4 calls, got %d", gen.calls)
	}
}

func TestGenerateExhaustionServesOfflineFallback(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{failures: 100}
	c := NewClient(gen, fastGenerateConfig())

	reply := c.Generate(context.Background(), "oi")
	if !reply.Offline {
		t.Error("exhausted generation not marked offline")
	}
	if reply.Text != OfflineFallback {
		t.Errorf("fallback text altered: %q", reply.Text)
	}
	if gen.calls != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", gen.calls)
	}
}

func TestGenerateContextCancellation(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{failures: 100}
	c := NewClient(gen, &config.GenerateConfig{
		MaxAttempts: 5,
		BackoffBase: 10 * time.Second,
		BackoffMax:  time.Minute,
		Timeout:     time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	reply := c.Generate(ctx, "oi")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation ignored, took %v", elapsed)
	}
	if !reply.Offline {
		t.Error("cancelled generation not marked offline")
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", gen.calls)
	}
}
