package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/bloombot/pkg/log"
)

// FailMode values for the security gate when both classifier tiers are down.
const (
	FailClosed = "closed" // refuse the message with a hard error
	FailOpen   = "open"   // degrade to the pattern-only verdict
)

type SecurityConfig struct {
	// MaxMessageLen rejects oversized messages before any other work.
	MaxMessageLen int `env:"BLOOM_SECURITY_MAX_LEN" envDefault:"2000"`

	// FailMode decides the gate's behavior on total classifier failure.
	// This is a deployment constant, never a per-call heuristic.
	FailMode string `env:"BLOOM_SECURITY_FAIL_MODE" envDefault:"closed"`
}

func NewSecurityConfig(ctx context.Context) *SecurityConfig {
	c := &SecurityConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Security config")
	}
	if c.FailMode != FailClosed && c.FailMode != FailOpen {
		log.FromCtx(ctx).Fatal().Str("mode", c.FailMode).Msg("invalid security fail mode")
	}
	return c
}
