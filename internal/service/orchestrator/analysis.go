package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

const analysisSystemPrompt = `You analyze one customer message for a flower shop assistant.
Extract shopping intent and structured search parameters.

Intents: product_search, business_info, order_help, chitchat.
For business_info also set "topic" to one of: hours, delivery, location, payment, returns, contact, care.

Respond with JSON only:
{"needs_search": bool, "query": string, "price_min": number|null, "price_max": number|null,
 "category": string, "flower_type": string, "occasion": string, "color": string,
 "intent": string, "confidence": number, "topic": string,
 "preferences": {string: string}}`

// messageAnalysis is the structured read of one inbound message.
type messageAnalysis struct {
	NeedsSearch bool              `json:"needs_search"`
	Query       string            `json:"query"`
	PriceMin    *float64          `json:"price_min"`
	PriceMax    *float64          `json:"price_max"`
	Category    string            `json:"category"`
	FlowerType  string            `json:"flower_type"`
	Occasion    string            `json:"occasion"`
	Color       string            `json:"color"`
	Intent      string            `json:"intent"`
	Confidence  float64           `json:"confidence"`
	Topic       string            `json:"topic"`
	Preferences map[string]string `json:"preferences"`
}

func (a messageAnalysis) filters() core.SearchFilters {
	return core.SearchFilters{
		PriceMin:   a.PriceMin,
		PriceMax:   a.PriceMax,
		Category:   a.Category,
		FlowerType: a.FlowerType,
		Occasion:   a.Occasion,
		Color:      a.Color,
	}
}

// analyze asks the chain for a structured analysis and degrades to a keyword
// heuristic when the chain or its output is unusable.
func analyze(ctx context.Context, provider core.GenerativeProvider, userText string, compact core.CompactContext) messageAnalysis {
	analysis, err := analyzeStructured(ctx, provider, userText, compact)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("Analysis degraded to keyword heuristic")
		return heuristicAnalysis(userText)
	}
	return analysis
}

func analyzeStructured(ctx context.Context, provider core.GenerativeProvider, userText string, compact core.CompactContext) (messageAnalysis, error) {
	var b strings.Builder
	if len(compact.Preferences) > 0 {
		b.WriteString("Known customer preferences: ")
		for k, v := range compact.Preferences {
			fmt.Fprintf(&b, "%s=%s ", k, v)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Customer message:\n%s", userText)

	result, err := provider.Generate(ctx, core.GenerateRequest{
		System:      analysisSystemPrompt,
		Prompt:      b.String(),
		Temperature: 0,
		JSONOutput:  true,
	})
	if err != nil {
		return messageAnalysis{}, err
	}

	var analysis messageAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(result.Text)), &analysis); err != nil {
		return messageAnalysis{}, fmt.Errorf("failed to parse analysis: %w", err)
	}
	if analysis.Query == "" {
		analysis.Query = userText
	}
	return analysis, nil
}

// Domain nouns the heuristic treats as shopping signals.
var searchKeywords = []string{
	"flower", "flowers", "bouquet", "rose", "roses", "tulip", "lily", "orchid",
	"arrangement", "buy", "price", "cost", "cheap", "gift",
	"flor", "flores", "ramo", "rosas", "comprar", "precio", "regalo",
}

var infoKeywords = map[string]string{
	"hour": "hours", "open": "hours", "close": "hours", "horario": "hours",
	"deliver": "delivery", "shipping": "delivery", "envío": "delivery", "envio": "delivery",
	"where": "location", "address": "location", "dirección": "location", "direccion": "location",
	"pay": "payment", "card": "payment", "pago": "payment",
	"refund": "returns", "return": "returns", "devolución": "returns", "devolucion": "returns",
	"phone": "contact", "contact": "contact", "teléfono": "contact", "telefono": "contact",
}

// heuristicAnalysis is the no-model fallback: crude but predictable.
func heuristicAnalysis(userText string) messageAnalysis {
	lower := strings.ToLower(userText)

	for keyword, topic := range infoKeywords {
		if strings.Contains(lower, keyword) {
			return messageAnalysis{
				Intent:     "business_info",
				Topic:      topic,
				Confidence: 0.3,
			}
		}
	}

	for _, keyword := range searchKeywords {
		if strings.Contains(lower, keyword) {
			return messageAnalysis{
				NeedsSearch: true,
				Query:       userText,
				Intent:      "product_search",
				Confidence:  0.3,
			}
		}
	}

	return messageAnalysis{Intent: "chitchat", Confidence: 0.3}
}
