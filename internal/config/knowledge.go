package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/atlas/pkg/log"
)

// KnowledgeConfig carries the hand-tuned thresholds of the retrieval
// pipeline. The defaults match the values the system shipped with; they are
// env-tunable because nobody has ever derived them from data.
type KnowledgeConfig struct {
	// Two questions under a topic closer than this are one entry.
	DedupThreshold float64 `env:"KNOWLEDGE_DEDUP_THRESHOLD" envDefault:"0.7"`

	// Candidates below this score never reach the context block.
	ScoreThreshold float64 `env:"KNOWLEDGE_SCORE_THRESHOLD" envDefault:"0.3"`

	// How many ranked entries feed the prompt.
	TopK int `env:"KNOWLEDGE_TOP_K" envDefault:"3"`

	// Canned-reply match threshold for longer prompts.
	CannedThreshold float64 `env:"CANNED_MATCH_THRESHOLD" envDefault:"0.6"`

	// Documents longer than this are split before generation.
	MaxChunkSize int `env:"DOCUMENT_CHUNK_SIZE" envDefault:"12000"`

	// Token budget for the retrieved-context block of the prompt.
	ContextTokenBudget int `env:"CONTEXT_TOKEN_BUDGET" envDefault:"2048"`
}

func NewKnowledgeConfig(ctx context.Context) *KnowledgeConfig {
	c := &KnowledgeConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Knowledge config")
	}
	return c
}

// GenerateConfig bounds the resilient generation client.
type GenerateConfig struct {
	MaxAttempts int           `env:"GENERATE_MAX_ATTEMPTS" envDefault:"5"`
	BackoffBase time.Duration `env:"GENERATE_BACKOFF_BASE" envDefault:"1s"`
	BackoffMax  time.Duration `env:"GENERATE_BACKOFF_MAX" envDefault:"60s"`
	Timeout     time.Duration `env:"GENERATE_TIMEOUT" envDefault:"30s"`
}

func NewGenerateConfig(ctx context.Context) *GenerateConfig {
	c := &GenerateConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Generate config")
	}
	return c
}
