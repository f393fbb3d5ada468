package contextstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

const keyPrefix = "bloom:ctx:"

// Store keeps per-user conversation state in a TTL'd key-value store.
// Storage trouble never propagates to callers: a miss and a failure both
// read as "no context", the pipeline continues without history.
type Store struct {
	kv           core.KVStore
	historyLimit int
	summaryLimit int
	ttl          time.Duration
	tokenBudget  int
	now          func() time.Time
}

func NewStore(cfg *config.AppConfig, kv core.KVStore) *Store {
	return &Store{
		kv:           kv,
		historyLimit: cfg.HistoryLimit,
		summaryLimit: cfg.SummaryLimit,
		ttl:          cfg.ContextTTL,
		tokenBudget:  cfg.PromptBudget,
		now:          time.Now,
	}
}

func (s *Store) Get(ctx context.Context, userID string) (*core.ConversationContext, bool) {
	data, found, err := s.kv.Get(ctx, keyPrefix+userID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).
			Msg("Context read failed, continuing without history")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var cc core.ConversationContext
	if err := json.Unmarshal(data, &cc); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).
			Msg("Context payload corrupt, continuing without history")
		return nil, false
	}
	return &cc, true
}

// Append records a completed turn, truncating oldest-first past the history
// limit. Returns false when persisting failed; the reply was already sent by
// then, so the caller only logs.
func (s *Store) Append(ctx context.Context, userID string, msg core.ConversationMessage) bool {
	cc, found := s.Get(ctx, userID)
	if !found {
		cc = &core.ConversationContext{UserID: userID, Preferences: map[string]string{}}
	}

	cc.Messages = append(cc.Messages, msg)
	if overflow := len(cc.Messages) - s.historyLimit; overflow > 0 {
		cc.Messages = cc.Messages[overflow:]
	}
	cc.TotalMessageCount++
	cc.LastUpdated = s.now()

	return s.persist(ctx, userID, cc)
}

// MergePreferences shallow-merges patch into the stored preference map,
// creating the context if needed.
func (s *Store) MergePreferences(ctx context.Context, userID string, patch map[string]string) bool {
	if len(patch) == 0 {
		return true
	}

	cc, found := s.Get(ctx, userID)
	if !found {
		cc = &core.ConversationContext{UserID: userID, Preferences: map[string]string{}}
	}
	if cc.Preferences == nil {
		cc.Preferences = map[string]string{}
	}
	for k, v := range patch {
		cc.Preferences[k] = v
	}
	cc.LastUpdated = s.now()

	return s.persist(ctx, userID, cc)
}

// Summarize produces the bounded hand-off for prompt building: the last
// summaryLimit turns plus the full preference map, further trimmed so the
// rendered history stays inside the token budget.
func (s *Store) Summarize(cc *core.ConversationContext) core.CompactContext {
	if cc == nil {
		return core.CompactContext{Preferences: map[string]string{}}
	}

	msgs := cc.Messages
	if len(msgs) > s.summaryLimit {
		msgs = msgs[len(msgs)-s.summaryLimit:]
	}

	// Drop oldest turns until the rendered history fits the budget. The
	// most recent turn always survives, oversized or not.
	for len(msgs) > 1 && historyTokens(msgs) > s.tokenBudget {
		msgs = msgs[1:]
	}

	out := core.CompactContext{
		Messages:    make([]core.ConversationMessage, len(msgs)),
		Preferences: make(map[string]string, len(cc.Preferences)),
	}
	copy(out.Messages, msgs)
	for k, v := range cc.Preferences {
		out.Preferences[k] = v
	}
	return out
}

func (s *Store) persist(ctx context.Context, userID string, cc *core.ConversationContext) bool {
	data, err := json.Marshal(cc)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("Failed to marshal context")
		return false
	}
	if err := s.kv.SetWithTTL(ctx, keyPrefix+userID, data, s.ttl); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Context write failed")
		return false
	}
	return true
}
