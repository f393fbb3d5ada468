package core

import "time"

const (
	BloomName          = "BloomBot"
	BloomUserAgent     = "BloomBot-Agent/0.1"
	BloomRepositoryURL = "https://github.com/sandevgo/bloombot"
	BloomVersion       = "0.1.0"
)

// RiskLevel grades how dangerous a message looks to the security gate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// ConversationMessage is one completed chat turn. Immutable once appended.
type ConversationMessage struct {
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Timestamp     time.Time `json:"timestamp"`
	Intent        string    `json:"intent,omitempty"`
	Confidence    float64   `json:"confidence,omitempty"`
}

// ConversationContext is the persisted per-user state. One instance per user id,
// owned exclusively by the context store and mutated only through its operations.
type ConversationContext struct {
	UserID            string                `json:"user_id"`
	Messages          []ConversationMessage `json:"messages"`
	Preferences       map[string]string     `json:"preferences"`
	LastUpdated       time.Time             `json:"last_updated"`
	TotalMessageCount int                   `json:"total_message_count"`
}

// CompactContext is the bounded hand-off shape passed into prompt building:
// the last K turns plus the full preference map.
type CompactContext struct {
	Messages    []ConversationMessage
	Preferences map[string]string
}

// SecurityVerdict is the outcome of classifying a single message.
// Created fresh per message and never persisted, only logged.
type SecurityVerdict struct {
	IsSafe         bool      `json:"is_safe"`
	RiskLevel      RiskLevel `json:"risk_level"`
	DetectedIssues []string  `json:"detected_issues,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"`
	ServiceUsed    string    `json:"service_used"`
}

// Product is a catalog item as stored in the vector index payload.
// Read-only from this side: the catalog ETL owns it.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	FlowerType   string   `json:"flower_type"`
	Colors       []string `json:"colors"`
	Occasions    []string `json:"occasions"`
	Availability bool     `json:"availability"`
}

// SearchResult is one ranked catalog hit, ephemeral per query.
type SearchResult struct {
	Product    Product
	Similarity float64
	RankScore  float64
	Latency    time.Duration
}

// SearchResponse bundles ranked hits with where they came from, so
// downstream reporting can tell cache-served answers from index queries.
type SearchResponse struct {
	Results []SearchResult
	Source  string // "index" or "cache"
}

// SearchFilters carries the structured constraints extracted from a message.
// Nil price bounds mean unbounded.
type SearchFilters struct {
	PriceMin    *float64
	PriceMax    *float64
	Category    string
	FlowerType  string
	Occasion    string
	Color       string
	InStockOnly bool
}

// PipelineResult is what ProcessMessage hands back to the transport layer.
type PipelineResult struct {
	Response       string
	Success        bool
	Intent         string
	Confidence     float64
	Products       []Product
	ServiceUsed    string
	ProcessingTime time.Duration
}
