package llm

import (
	"context"
	"strconv"
	"time"

	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/cache"
)

// Cached wraps a provider with a bounded TTL response cache keyed by the
// full prompt plus the provider identity. Only successful generations are
// stored; cached replies report Provider="cache".
type Cached struct {
	inner core.GenerativeProvider
	cache *cache.Cache[string]
}

func WithCache(p core.GenerativeProvider, ttl time.Duration, maxEntries int) *Cached {
	return &Cached{
		inner: p,
		cache: cache.New[string](ttl, maxEntries),
	}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Generate(ctx context.Context, req core.GenerateRequest) (core.GenerateResult, error) {
	key := cache.HashKey(
		c.inner.Name(),
		req.System,
		req.Prompt,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.FormatBool(req.JSONOutput),
	)

	if text, ok := c.cache.Get(key); ok {
		return core.GenerateResult{Text: text, Provider: "cache"}, nil
	}

	res, err := c.inner.Generate(ctx, req)
	if err != nil {
		return core.GenerateResult{}, err
	}

	c.cache.Set(key, res.Text)
	return res, nil
}

// EvictExpired drops stale cache entries; wired to a periodic sweep.
func (c *Cached) EvictExpired() int {
	return c.cache.EvictExpired()
}
