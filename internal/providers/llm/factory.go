package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

// NewFallbackChain builds the configured provider chain, each identity
// wrapped with a concurrency permit pool, the whole chain wrapped with the
// shared response cache.
func NewFallbackChain(ctx context.Context, cfg *config.LLMConfig) (*Cached, error) {
	log.FromCtx(ctx).Info().
		Strs("providers", cfg.Providers).
		Int("max_in_flight", cfg.MaxInFlight).
		Msg("starting llm fallback chain")

	providers := make([]core.GenerativeProvider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		p, err := newProvider(ctx, name, cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, Limit(p, cfg.MaxInFlight))
	}

	chain, err := NewChain(providers...)
	if err != nil {
		return nil, err
	}
	return WithCache(chain, cfg.CacheTTL, cfg.CacheMaxEntries), nil
}

func newProvider(ctx context.Context, name string, cfg *config.LLMConfig) (core.GenerativeProvider, error) {
	switch name {
	case "gemini":
		g := config.NewGeminiConfig(ctx)
		return NewGemini(g.BaseURL, g.APIKey, g.Model, cfg.CallTimeout), nil
	case "openai":
		o := config.NewOpenAIConfig(ctx)
		return NewOpenAI(o.BaseURL, o.APIKey, o.Model, cfg.CallTimeout), nil
	case "openrouter":
		o := config.NewOpenRouterConfig(ctx)
		return NewOpenRouter(o.APIKey, o.Model, cfg.CallTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", name)
	}
}
