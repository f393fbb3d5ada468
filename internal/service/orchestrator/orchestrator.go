package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

// SecurityGate screens a message before any other work happens.
type SecurityGate interface {
	Classify(ctx context.Context, message, userID string) (core.SecurityVerdict, error)
}

// ContextStore is the conversation persistence boundary.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*core.ConversationContext, bool)
	Append(ctx context.Context, userID string, msg core.ConversationMessage) bool
	MergePreferences(ctx context.Context, userID string, patch map[string]string) bool
	Summarize(cc *core.ConversationContext) core.CompactContext
}

// Searcher answers catalog queries. The response says whether the hits
// came from the live index or the engine's cache.
type Searcher interface {
	Search(ctx context.Context, query string, f core.SearchFilters, maxResults int) (core.SearchResponse, error)
}

// Orchestrator runs the message pipeline: gate, context, analysis, optional
// search, generation, context update. It deliberately returns a result
// instead of an error; transports always have something to report.
type Orchestrator struct {
	cfg       *config.AppConfig
	searchCfg *config.SearchConfig
	gate      SecurityGate
	contexts  ContextStore
	search    Searcher
	provider  core.GenerativeProvider
	bizinfo   core.BusinessInfo
	userLocks *keyedMutex
}

func New(
	cfg *config.AppConfig,
	searchCfg *config.SearchConfig,
	gate SecurityGate,
	contexts ContextStore,
	search Searcher,
	provider core.GenerativeProvider,
	bizinfo core.BusinessInfo,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		searchCfg: searchCfg,
		gate:      gate,
		contexts:  contexts,
		search:    search,
		provider:  provider,
		bizinfo:   bizinfo,
		userLocks: newKeyedMutex(),
	}
}

func (o *Orchestrator) ProcessMessage(ctx context.Context, userText, userID string) core.PipelineResult {
	start := time.Now()
	ctx = log.WithRequest(ctx, uuid.NewString(), userID)
	logger := log.FromCtx(ctx)

	verdict, err := o.gate.Classify(ctx, userText, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Security gate unavailable, refusing message")
		return core.PipelineResult{
			Response:       apologyText,
			Success:        false,
			ServiceUsed:    "security",
			ProcessingTime: time.Since(start),
		}
	}

	if !verdict.IsSafe {
		return core.PipelineResult{
			Response:       blockedReply(verdict.RiskLevel),
			Success:        true,
			Intent:         "blocked",
			Confidence:     verdict.Confidence,
			ServiceUsed:    verdict.ServiceUsed,
			ProcessingTime: time.Since(start),
		}
	}

	// Per-user critical section: context read through context update. Two
	// concurrent messages from one user must not interleave their turns.
	unlock := o.userLocks.lock(userID)
	defer unlock()

	cc, _ := o.contexts.Get(ctx, userID)
	compact := o.contexts.Summarize(cc)

	analysis := analyze(ctx, o.provider, userText, compact)

	var fact string
	if analysis.Intent == "business_info" && analysis.Topic != "" {
		if f, ok := o.bizinfo.GetBusinessFact(ctx, analysis.Topic); ok {
			fact = f
		}
	}

	var (
		results      []core.SearchResult
		searchSource string
	)
	if analysis.NeedsSearch {
		found, err := o.search.Search(ctx, analysis.Query, analysis.filters(), o.searchCfg.MaxResults)
		if err != nil {
			// Catalog grounding is optional: reply proceeds without it.
			logger.Warn().Err(err).Str("query", analysis.Query).
				Msg("Search failed, replying without catalog grounding")
		} else {
			results = found.Results
			searchSource = found.Source
		}
	}

	generated, err := o.provider.Generate(ctx, core.GenerateRequest{
		System:      responseSystemPrompt,
		Prompt:      buildPrompt(compact, results, fact, userText),
		Temperature: 0.7,
	})
	if err != nil {
		logger.Error().Err(err).Msg("All generative providers exhausted")
		return core.PipelineResult{
			Response:       apologyText,
			Success:        false,
			Intent:         analysis.Intent,
			ServiceUsed:    "none",
			ProcessingTime: time.Since(start),
		}
	}

	if ok := o.contexts.Append(ctx, userID, core.ConversationMessage{
		UserText:      userText,
		AssistantText: generated.Text,
		Timestamp:     time.Now(),
		Intent:        analysis.Intent,
		Confidence:    analysis.Confidence,
	}); !ok {
		logger.Warn().Msg("Turn not persisted, next message will miss it")
	}
	if len(analysis.Preferences) > 0 {
		o.contexts.MergePreferences(ctx, userID, analysis.Preferences)
	}

	logger.Info().
		Str("intent", analysis.Intent).
		Str("service_used", generated.Provider).
		Str("search_source", searchSource).
		Int("products", len(results)).
		Dur("processing_time", time.Since(start)).
		Msg("Message processed")

	return core.PipelineResult{
		Response:       generated.Text,
		Success:        true,
		Intent:         analysis.Intent,
		Confidence:     analysis.Confidence,
		Products:       products(results),
		ServiceUsed:    generated.Provider,
		ProcessingTime: time.Since(start),
	}
}

func products(results []core.SearchResult) []core.Product {
	if len(results) == 0 {
		return nil
	}
	out := make([]core.Product, len(results))
	for i, r := range results {
		out[i] = r.Product
	}
	return out
}
