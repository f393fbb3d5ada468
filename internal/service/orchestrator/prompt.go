package orchestrator

import (
	"fmt"
	"strings"

	"github.com/sandevgo/bloombot/internal/core"
)

const responseSystemPrompt = `You are Bloom, the assistant of a neighborhood flower shop.
Be warm, concise and concrete. Recommend only products listed in the prompt; if none are
listed, help with the customer's question without inventing inventory or prices. Answer in
the customer's language.`

// buildPrompt assembles the generation prompt from the compact context, the
// catalog hits and an optional business fact. History is rendered in the
// same shape the token budget was measured against.
func buildPrompt(compact core.CompactContext, results []core.SearchResult, fact, userText string) string {
	var b strings.Builder

	if len(compact.Preferences) > 0 {
		b.WriteString("Customer preferences:\n")
		for k, v := range compact.Preferences {
			fmt.Fprintf(&b, "- %s: %s\n", k, v)
		}
		b.WriteString("\n")
	}

	if len(compact.Messages) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, m := range compact.Messages {
			b.WriteString("Customer: ")
			b.WriteString(m.UserText)
			b.WriteString("\nAssistant: ")
			b.WriteString(m.AssistantText)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if fact != "" {
		fmt.Fprintf(&b, "Store information:\n%s\n\n", fact)
	}

	if len(results) > 0 {
		b.WriteString("Matching products:\n")
		for _, r := range results {
			p := r.Product
			fmt.Fprintf(&b, "- %s ($%.2f): %s", p.Name, p.Price, p.Description)
			if !p.Availability {
				b.WriteString(" [currently out of stock]")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Customer message:\n%s", userText)
	return b.String()
}
