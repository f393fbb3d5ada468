package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/bloombot/internal/core"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int64
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, req core.GenerateRequest) (core.GenerateResult, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return core.GenerateResult{}, f.err
	}
	return core.GenerateResult{Text: f.text, Provider: f.name}, nil
}

func TestChain_PrimaryServes(t *testing.T) {
	primary := &fakeProvider{name: "primary", text: "hello"}
	secondary := &fakeProvider{name: "secondary", text: "fallback"}

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatal(err)
	}

	res, err := chain.Generate(context.Background(), core.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello" || res.Provider != "primary" {
		t.Errorf("expected primary result, got %+v", res)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not be called when primary succeeds")
	}
}

func TestChain_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("timeout")}
	secondary := &fakeProvider{name: "secondary", text: "fallback"}

	chain, _ := NewChain(primary, secondary)

	res, err := chain.Generate(context.Background(), core.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "secondary" {
		t.Errorf("expected secondary to serve, got %q", res.Provider)
	}
}

func TestChain_AllExhausted(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("down")}
	secondary := &fakeProvider{name: "secondary", err: errors.New("also down")}

	chain, _ := NewChain(primary, secondary)

	_, err := chain.Generate(context.Background(), core.GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, core.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected one attempt per provider, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChain_RequiresProviders(t *testing.T) {
	if _, err := NewChain(); err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestCached_ServesFromCacheSecondTime(t *testing.T) {
	inner := &fakeProvider{name: "primary", text: "reply"}
	cached := WithCache(inner, time.Minute, 10)

	req := core.GenerateRequest{System: "sys", Prompt: "hi", Temperature: 0.7}

	first, err := cached.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Provider != "primary" {
		t.Errorf("first call must hit the provider, got %q", first.Provider)
	}

	second, err := cached.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if second.Provider != "cache" || second.Text != "reply" {
		t.Errorf("second call must be served from cache, got %+v", second)
	}
	if inner.calls != 1 {
		t.Errorf("expected a single provider call, got %d", inner.calls)
	}
}

func TestCached_DistinctPromptsMiss(t *testing.T) {
	inner := &fakeProvider{name: "primary", text: "reply"}
	cached := WithCache(inner, time.Minute, 10)

	_, _ = cached.Generate(context.Background(), core.GenerateRequest{Prompt: "a"})
	_, _ = cached.Generate(context.Background(), core.GenerateRequest{Prompt: "b"})

	if inner.calls != 2 {
		t.Errorf("distinct prompts must not share entries, got %d calls", inner.calls)
	}
}

func TestCached_FailuresNotCached(t *testing.T) {
	inner := &fakeProvider{name: "primary", err: errors.New("down")}
	cached := WithCache(inner, time.Minute, 10)

	req := core.GenerateRequest{Prompt: "hi"}
	_, err1 := cached.Generate(context.Background(), req)
	_, err2 := cached.Generate(context.Background(), req)

	if err1 == nil || err2 == nil {
		t.Fatal("expected both calls to fail")
	}
	if inner.calls != 2 {
		t.Errorf("failures must not be cached, got %d calls", inner.calls)
	}
}
