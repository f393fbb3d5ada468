package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
)

// Chain is an ordered list of providers tried in sequence until one
// succeeds. Exhausting every provider is a hard failure surfaced as
// core.ErrGenerationFailed; the chain never fabricates a reply.
type Chain struct {
	providers []core.GenerativeProvider
}

func NewChain(providers ...core.GenerativeProvider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("fallback chain needs at least one provider")
	}
	return &Chain{providers: providers}, nil
}

func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

func (c *Chain) Generate(ctx context.Context, req core.GenerateRequest) (core.GenerateResult, error) {
	logger := log.FromCtx(ctx)

	var errs []error
	for _, p := range c.providers {
		res, err := p.Generate(ctx, req)
		if err == nil {
			return res, nil
		}
		logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed, falling back")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return core.GenerateResult{}, fmt.Errorf("%w: %w", core.ErrGenerationFailed, errors.Join(errs...))
}
