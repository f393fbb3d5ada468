package bizinfo

import (
	"context"
	"strings"
)

// Static flower-shop facts answered without touching the LLM chain.
// Keys are normalized topics as produced by intent analysis.
var facts = map[string]string{
	"hours":    "We are open Monday through Saturday from 9:00 to 19:00, and Sunday from 10:00 to 15:00.",
	"delivery": "We deliver across the city the same day for orders placed before 14:00. Delivery is free for orders over $50, otherwise it is $7.",
	"location": "Our shop is at 24 Rosemary Lane, two blocks from the central market.",
	"payment":  "We accept cards, cash, and all major mobile wallets. Online orders can also be paid by bank transfer.",
	"returns":  "If your flowers arrive damaged, contact us within 24 hours with a photo and we will replace the bouquet or refund you.",
	"contact":  "You can reach us at +1 (555) 010-2400 or hello@bloombot.example, every day during opening hours.",
	"care":     "Trim stems at an angle, change the water every two days, and keep the bouquet away from direct sunlight and fruit.",
}

var topicAliases = map[string]string{
	"opening_hours": "hours",
	"schedule":      "hours",
	"shipping":      "delivery",
	"address":       "location",
	"refund":        "returns",
	"phone":         "contact",
	"email":         "contact",
	"care_tips":     "care",
}

type Service struct{}

func New() *Service {
	return &Service{}
}

func (s *Service) GetBusinessFact(ctx context.Context, topic string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(topic))
	if canonical, ok := topicAliases[key]; ok {
		key = canonical
	}
	fact, ok := facts[key]
	return fact, ok
}
