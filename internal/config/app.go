package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/bloombot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"BLOOM_RUNTIME_PATH" envDefault:".bloombot"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Conversation retention: at most HistoryLimit turns are kept per user,
	// SummaryLimit of them are handed to prompt building.
	HistoryLimit int           `env:"BLOOM_HISTORY_LIMIT" envDefault:"10"`
	SummaryLimit int           `env:"BLOOM_SUMMARY_LIMIT" envDefault:"5"`
	ContextTTL   time.Duration `env:"BLOOM_CONTEXT_TTL" envDefault:"24h"`
	PromptBudget int           `env:"BLOOM_PROMPT_TOKEN_BUDGET" envDefault:"1200"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if c.SummaryLimit >= c.HistoryLimit {
		c.SummaryLimit = c.HistoryLimit - 1
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "bloombot.db")
}
