// Package generate wraps a text generation backend with retries and a
// fixed offline fallback. Callers always get a reply; degradation is
// signalled by the Offline flag, never by inspecting the text.
package generate

import (
	"context"
	"strings"
	"time"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/pkg/log"
	"github.com/sandevgo/atlas/pkg/retry"
)

// OfflineFallback is served verbatim when every attempt fails.
const OfflineFallback = "Estou enfrentando problemas de conexão com meu servidor de conhecimento. Por favor, tente novamente em alguns instantes."

type Client struct {
	generator core.Generator
	retrier   *retry.Retrier
	timeout   time.Duration
}

func NewClient(generator core.Generator, cfg *config.GenerateConfig) *Client {
	return &Client{
		generator: generator,
		retrier: retry.NewRetrier(&retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BackoffBase,
			Factor:      2,
			MaxDelay:    cfg.BackoffMax,
		}),
		timeout: cfg.Timeout,
	}
}

// Generate runs prompt through the backend with exponential backoff. On
// exhaustion or context cancellation it returns the offline fallback
// tagged Offline; such replies must not be recorded as knowledge.
func (c *Client) Generate(ctx context.Context, prompt string) core.Reply {
	attempt := 0
	var text string

	err := c.retrier.Do(ctx, func() error {
		attempt++
		opCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := c.generator.Generate(opCtx, prompt)
		if err != nil {
			evt := log.FromCtx(ctx).Warn().Err(err).Int("attempt", attempt)
			if isConnectivity(err) {
				evt = evt.Bool("connectivity", true)
			}
			evt.Msg("generation attempt failed")
			return err
		}

		text = out
		return nil
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).
			Int("attempts", attempt).
			Msg("generation exhausted, serving offline fallback")
		return core.Reply{Text: OfflineFallback, Offline: true}
	}

	return core.Reply{Text: text}
}

// isConnectivity is advisory only: it enriches the log line, it never
// changes the retry decision.
func isConnectivity(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"fetch failed", "network", "timeout", "connection refused", "deadline exceeded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
