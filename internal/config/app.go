package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/atlas/pkg/log"
)

type AppConfig struct {
	// Generator backend: gemini or openai
	Generator string `env:"GENERATOR" envDefault:"gemini"`

	// Durable store backend: file or sqlite
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`

	// Transport flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// How many of the latest turns are read back into generation context.
	RecentTurns int `env:"RECENT_TURNS" envDefault:"3"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDataDir() string {
	return filepath.Join(GetRuntimePath(), "data")
}

func (c AppConfig) GetPersonaPath() string {
	return filepath.Join(GetRuntimePath(), "ATLAS.md")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.GetDataDir(), "atlas.db")
}
