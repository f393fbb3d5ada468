package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sandevgo/bloombot/internal/core"
)

// Gemini talks to the Google Generative Language REST API.
type Gemini struct {
	baseProvider
}

func NewGemini(baseURL, apiKey, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(baseURL, apiKey, model, timeout),
	}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Generate(ctx context.Context, req core.GenerateRequest) (core.GenerateResult, error) {
	genConfig := map[string]any{
		"temperature": req.Temperature,
	}
	if req.JSONOutput {
		genConfig["responseMimeType"] = "application/json"
	}

	payload := map[string]any{
		"contents": []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		"generationConfig": genConfig,
	}
	if req.System != "" {
		payload["system_instruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s", g.model, url.QueryEscape(g.apiKey))
	resp, err := g.doRequest(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return core.GenerateResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.GenerateResult{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.GenerateResult{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.GenerateResult{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return core.GenerateResult{}, fmt.Errorf("empty candidates: %s", string(data))
	}

	var text string
	for _, p := range result.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return core.GenerateResult{}, fmt.Errorf("empty response (finish: %s)", result.Candidates[0].FinishReason)
	}
	return core.GenerateResult{Text: text, Provider: g.Name()}, nil
}
