package llm

import (
	"context"

	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/permit"
)

// Limited bounds in-flight calls to one provider with a permit pool.
// Callers past the bound queue on the pool instead of failing.
type Limited struct {
	inner core.GenerativeProvider
	pool  *permit.Pool
}

func Limit(p core.GenerativeProvider, maxInFlight int) *Limited {
	return &Limited{inner: p, pool: permit.NewPool(maxInFlight)}
}

func (l *Limited) Name() string { return l.inner.Name() }

func (l *Limited) Generate(ctx context.Context, req core.GenerateRequest) (core.GenerateResult, error) {
	var res core.GenerateResult
	err := l.pool.Do(ctx, func() error {
		var innerErr error
		res, innerErr = l.inner.Generate(ctx, req)
		return innerErr
	})
	return res, err
}
