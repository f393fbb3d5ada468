package orchestrator

import "github.com/sandevgo/bloombot/internal/core"

// apologyText is the fixed degraded-mode reply. Never generated, never
// varies, so it can be promised to support staff verbatim.
const apologyText = "I'm sorry, I'm having trouble answering right now. " +
	"Please try again in a few minutes, or reach us directly at +1 (555) 010-2400 — we're happy to help."

// Risk-tiered redirects for blocked messages. Friendly by design: a blocked
// customer is still a customer.
var blockedReplies = map[core.RiskLevel]string{
	core.RiskLow: "Let's keep things flowery! I can help you find bouquets, check prices, " +
		"or answer questions about delivery and opening hours. What are you looking for?",
	core.RiskMedium: "I can only help with our flower shop — bouquets, arrangements, prices, " +
		"delivery and store questions. What can I find for you?",
	core.RiskHigh: "I'm here to help with flowers and orders from our shop. " +
		"If there's a bouquet or an occasion I can help with, just ask!",
}

func blockedReply(risk core.RiskLevel) string {
	if reply, ok := blockedReplies[risk]; ok {
		return reply
	}
	return blockedReplies[core.RiskHigh]
}
