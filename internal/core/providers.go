package core

import "context"

// GenerateRequest describes one generative call. JSONOutput switches the
// provider into structured-output mode: the returned string is then a JSON
// document the caller unmarshals itself.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float64
	JSONOutput  bool
}

// GenerateResult carries the text plus which identity actually served it
// ("gemini", "openai", "cache", ...), so callers can report provenance.
type GenerateResult struct {
	Text     string
	Provider string
}

type GenerativeProvider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// BusinessInfo answers static store questions (hours, address, delivery).
// Implemented outside the pipeline; consulted for informational intents.
type BusinessInfo interface {
	GetBusinessFact(ctx context.Context, topic string) (string, bool)
}
