package contextstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
)

type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	setTTLs []time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.setTTLs = append(f.setTTLs, ttl)
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func testStore(kv core.KVStore) *Store {
	return NewStore(&config.AppConfig{
		HistoryLimit: 10,
		SummaryLimit: 5,
		ContextTTL:   24 * time.Hour,
		PromptBudget: 1200,
	}, kv)
}

func TestStore_AppendCreatesContext(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	ok := store.Append(ctx, "u1", core.ConversationMessage{UserText: "hi", AssistantText: "hello"})
	if !ok {
		t.Fatal("append failed")
	}

	cc, found := store.Get(ctx, "u1")
	if !found {
		t.Fatal("expected context after append")
	}
	if len(cc.Messages) != 1 || cc.TotalMessageCount != 1 {
		t.Errorf("unexpected context shape: %+v", cc)
	}
}

func TestStore_HistoryBound(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	for i := 0; i < 14; i++ {
		store.Append(ctx, "u1", core.ConversationMessage{UserText: fmt.Sprintf("msg-%d", i)})
	}

	cc, found := store.Get(ctx, "u1")
	if !found {
		t.Fatal("expected context")
	}
	if len(cc.Messages) != 10 {
		t.Fatalf("expected 10 retained messages, got %d", len(cc.Messages))
	}
	// The 10 most recent, in arrival order.
	for i, msg := range cc.Messages {
		want := fmt.Sprintf("msg-%d", i+4)
		if msg.UserText != want {
			t.Errorf("message %d: expected %q, got %q", i, want, msg.UserText)
		}
	}
	if cc.TotalMessageCount != 14 {
		t.Errorf("expected total count 14, got %d", cc.TotalMessageCount)
	}
}

func TestStore_GetAbsorbsFailures(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("disk on fire")
	store := testStore(kv)

	cc, found := store.Get(context.Background(), "u1")
	if found || cc != nil {
		t.Error("expected (nil, false) on storage failure")
	}
}

func TestStore_GetAbsorbsCorruptPayload(t *testing.T) {
	kv := newFakeKV()
	kv.data[keyPrefix+"u1"] = []byte("not json")
	store := testStore(kv)

	cc, found := store.Get(context.Background(), "u1")
	if found || cc != nil {
		t.Error("expected (nil, false) on corrupt payload")
	}
}

func TestStore_AppendReportsWriteFailure(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("disk full")
	store := testStore(kv)

	if ok := store.Append(context.Background(), "u1", core.ConversationMessage{UserText: "hi"}); ok {
		t.Error("expected append to report failure")
	}
}

func TestStore_AppendRefreshesTTL(t *testing.T) {
	kv := newFakeKV()
	store := testStore(kv)
	ctx := context.Background()

	store.Append(ctx, "u1", core.ConversationMessage{UserText: "a"})
	store.Append(ctx, "u1", core.ConversationMessage{UserText: "b"})

	if len(kv.setTTLs) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(kv.setTTLs))
	}
	for _, ttl := range kv.setTTLs {
		if ttl != 24*time.Hour {
			t.Errorf("expected 24h TTL, got %s", ttl)
		}
	}
}

func TestStore_MergePreferences(t *testing.T) {
	store := testStore(newFakeKV())
	ctx := context.Background()

	store.MergePreferences(ctx, "u1", map[string]string{"color": "red", "occasion": "anniversary"})
	store.MergePreferences(ctx, "u1", map[string]string{"color": "white", "budget": "50"})

	cc, found := store.Get(ctx, "u1")
	if !found {
		t.Fatal("expected context")
	}
	want := map[string]string{"color": "white", "occasion": "anniversary", "budget": "50"}
	for k, v := range want {
		if cc.Preferences[k] != v {
			t.Errorf("preference %q: expected %q, got %q", k, v, cc.Preferences[k])
		}
	}
}

func TestStore_SummarizeLastK(t *testing.T) {
	store := testStore(newFakeKV())

	cc := &core.ConversationContext{Preferences: map[string]string{"color": "red"}}
	for i := 0; i < 8; i++ {
		cc.Messages = append(cc.Messages, core.ConversationMessage{UserText: fmt.Sprintf("msg-%d", i)})
	}

	compact := store.Summarize(cc)
	if len(compact.Messages) != 5 {
		t.Fatalf("expected 5 summarized messages, got %d", len(compact.Messages))
	}
	if compact.Messages[0].UserText != "msg-3" {
		t.Errorf("expected oldest summarized message msg-3, got %q", compact.Messages[0].UserText)
	}
	if compact.Preferences["color"] != "red" {
		t.Error("expected preferences to carry over")
	}
}

func TestStore_SummarizeTokenBudget(t *testing.T) {
	store := testStore(newFakeKV())
	store.tokenBudget = 50

	long := strings.Repeat("peonies and ranunculus for the spring wedding ", 10)
	cc := &core.ConversationContext{}
	for i := 0; i < 5; i++ {
		cc.Messages = append(cc.Messages, core.ConversationMessage{UserText: long, AssistantText: long})
	}

	compact := store.Summarize(cc)
	if len(compact.Messages) != 1 {
		t.Errorf("expected budget to trim history down to the latest turn, got %d messages", len(compact.Messages))
	}
}

func TestStore_SummarizeNil(t *testing.T) {
	store := testStore(newFakeKV())

	compact := store.Summarize(nil)
	if len(compact.Messages) != 0 {
		t.Error("expected empty history for nil context")
	}
	if compact.Preferences == nil {
		t.Error("expected non-nil preference map")
	}
}
