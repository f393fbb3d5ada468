package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/bloombot/pkg/log"
)

// LLMConfig wires the generative fallback chain. Providers holds the ordered
// identities ("gemini", "openai", "openrouter"); the first is the primary.
type LLMConfig struct {
	Providers []string `env:"BLOOM_LLM_PROVIDERS" envDefault:"gemini,openai" envSeparator:","`

	// At most MaxInFlight simultaneous calls per provider; excess callers queue.
	MaxInFlight int `env:"BLOOM_LLM_MAX_IN_FLIGHT" envDefault:"10"`

	CallTimeout time.Duration `env:"BLOOM_LLM_TIMEOUT" envDefault:"30s"`

	// Response cache shared by analysis and generation calls.
	CacheTTL        time.Duration `env:"BLOOM_LLM_CACHE_TTL" envDefault:"10m"`
	CacheMaxEntries int           `env:"BLOOM_LLM_CACHE_MAX" envDefault:"200"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	if len(c.Providers) == 0 {
		log.FromCtx(ctx).Fatal().Msg("at least one LLM provider required")
	}
	return c
}

type GeminiConfig struct {
	APIKey  string `env:"GEMINI_API_KEY,required,notEmpty"`
	Model   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	BaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}
	return c
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY,required,notEmpty"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}

type OpenRouterConfig struct {
	APIKey string `env:"OPENROUTER_API_KEY,required,notEmpty"`
	Model  string `env:"OPENROUTER_MODEL" envDefault:"google/gemma-3-27b-it:free"`
}

func NewOpenRouterConfig(ctx context.Context) *OpenRouterConfig {
	c := &OpenRouterConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenRouter config")
	}
	return c
}
