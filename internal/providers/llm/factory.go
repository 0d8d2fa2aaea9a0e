// Package llm holds the text generation backends. Each backend satisfies
// core.Generator; everything above it is provider-agnostic.
package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/pkg/log"
)

// NewGenerator creates the configured generation backend. Provider-specific
// configuration is read only for the selected backend, so an unused
// provider's credentials may stay unset.
func NewGenerator(ctx context.Context, cfg *config.AppConfig) (core.Generator, error) {
	log.FromCtx(ctx).Info().
		Str("generator", cfg.Generator).
		Msg("starting generator")

	switch cfg.Generator {
	case "gemini":
		return NewGemini(ctx, config.NewGeminiConfig(ctx))
	case "openai":
		return NewOpenAI(config.NewOpenAIConfig(ctx)), nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator)
	}
}
