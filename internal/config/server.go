package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/atlas/pkg/log"
)

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// Request body cap in megabytes. Document uploads arrive base64-encoded
	// in JSON, so this runs well above a typical API limit.
	PayloadLimitMB int64 `env:"PAYLOAD_LIMIT_MB" envDefault:"150"`
}

func (c ServerConfig) MaxBodyBytes() int64 {
	return c.PayloadLimitMB << 20
}

func NewServerConfig(ctx context.Context) *ServerConfig {
	c := &ServerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Server config")
	}
	return c
}
