package contextstore

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/bloombot/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// historyTokens counts the tokens of the history exactly as prompt building
// renders it, so the budget bounds what actually reaches the model.
func historyTokens(msgs []core.ConversationMessage) int {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString("Customer: ")
		b.WriteString(m.UserText)
		b.WriteString("\nAssistant: ")
		b.WriteString(m.AssistantText)
		b.WriteString("\n")
	}
	return len(getTokenizer().Encode(b.String(), nil, nil))
}
