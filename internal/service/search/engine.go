package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/cache"
	"github.com/sandevgo/bloombot/pkg/log"
)

const (
	sourceIndex = "index"
	sourceCache = "cache"
)

// Engine answers product queries: expand, embed, retrieve, rerank. Results
// are cached per (query, filters, size) so repeated questions skip the
// vector index entirely.
type Engine struct {
	cfg      *config.SearchConfig
	embedder core.Embedder
	index    core.VectorIndex
	cache    *cache.Cache[[]core.SearchResult]
}

func NewEngine(cfg *config.SearchConfig, embedder core.Embedder, index core.VectorIndex) *Engine {
	return &Engine{
		cfg:      cfg,
		embedder: embedder,
		index:    index,
		cache:    cache.New[[]core.SearchResult](cfg.CacheTTL, cfg.CacheMaxEntries),
	}
}

// Search answers query against the catalog. The response's Source says
// whether the hits came from the vector index or the engine's cache.
func (e *Engine) Search(ctx context.Context, query string, f core.SearchFilters, maxResults int) (core.SearchResponse, error) {
	if maxResults <= 0 {
		maxResults = e.cfg.MaxResults
	}

	key := cacheKey(query, f, maxResults)
	if cached, ok := e.cache.Get(key); ok {
		log.FromCtx(ctx).Debug().Str("query", query).Msg("Search cache hit")
		return core.SearchResponse{Results: copyResults(cached), Source: sourceCache}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	start := time.Now()

	expanded := expandQuery(query)
	vector, err := e.embedder.EmbedQuery(ctx, expanded)
	if err != nil {
		return core.SearchResponse{}, fmt.Errorf("%w: embedding query: %w", core.ErrSearchUnavailable, err)
	}

	pred := pickPredicate(f)
	points, err := e.index.Query(ctx, vector, 2*maxResults, pred)
	if err != nil {
		return core.SearchResponse{}, fmt.Errorf("%w: %w", core.ErrSearchUnavailable, err)
	}

	points = applyFilters(points, f, pred)
	results := rerank(points, f, expandedTerms(expanded), maxResults)

	latency := time.Since(start)
	for i := range results {
		results[i].Latency = latency
	}

	log.FromCtx(ctx).Debug().
		Str("query", query).
		Str("expanded", expanded).
		Int("candidates", len(points)).
		Int("results", len(results)).
		Dur("latency", latency).
		Msg("Search completed")

	e.cache.Set(key, copyResults(results))
	return core.SearchResponse{Results: results, Source: sourceIndex}, nil
}

// CacheHits reports how many searches were served from cache.
func (e *Engine) CacheHits() uint64 {
	return e.cache.Hits()
}

// EvictExpired drops stale cache entries; wired to a ticker service.
func (e *Engine) EvictExpired() int {
	return e.cache.EvictExpired()
}

func cacheKey(query string, f core.SearchFilters, maxResults int) string {
	return cache.HashKey(
		query,
		strconv.Itoa(maxResults),
		floatKey(f.PriceMin),
		floatKey(f.PriceMax),
		f.Category,
		f.FlowerType,
		f.Occasion,
		f.Color,
		strconv.FormatBool(f.InStockOnly),
	)
}

func floatKey(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// copyResults keeps cached slices isolated from caller mutation.
func copyResults(in []core.SearchResult) []core.SearchResult {
	out := make([]core.SearchResult, len(in))
	copy(out, in)
	return out
}
