package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/bloombot/pkg/log"
)

type SearchConfig struct {
	MaxResults      int           `env:"BLOOM_SEARCH_MAX_RESULTS" envDefault:"5"`
	CacheTTL        time.Duration `env:"BLOOM_SEARCH_CACHE_TTL" envDefault:"5m"`
	CacheMaxEntries int           `env:"BLOOM_SEARCH_CACHE_MAX" envDefault:"500"`
	QueryTimeout    time.Duration `env:"BLOOM_SEARCH_TIMEOUT" envDefault:"10s"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}

type QdrantConfig struct {
	Host       string `env:"QDRANT_HOST" envDefault:"localhost"`
	Port       int    `env:"QDRANT_PORT" envDefault:"6334"`
	APIKey     string `env:"QDRANT_API_KEY"`
	Collection string `env:"QDRANT_COLLECTION" envDefault:"bloom_products"`
	UseTLS     bool   `env:"QDRANT_USE_TLS" envDefault:"false"`
}

func NewQdrantConfig(ctx context.Context) *QdrantConfig {
	c := &QdrantConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Qdrant config")
	}
	return c
}

type EmbedConfig struct {
	Model    string `env:"BLOOM_EMBED_MODEL" envDefault:"BAAI/bge-small-en-v1.5"`
	CacheDir string `env:"BLOOM_EMBED_CACHE_DIR"`
}

func NewEmbedConfig(ctx context.Context) *EmbedConfig {
	c := &EmbedConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embed config")
	}
	return c
}
