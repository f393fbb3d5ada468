package core

import (
	"context"
	"time"
)

// KVStore is the persistence contract the context store runs on.
// Get reports (value, found); a missing or expired key is (nil, false, nil).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Predicate is a single structured constraint pushed down to the vector index.
// The index accepts at most one per query: either a keyword match (Equals) or
// a numeric range (Min/Max), never both.
type Predicate struct {
	Field  string
	Equals string
	Min    *float64
	Max    *float64
}

// VectorPoint is one nearest-neighbor hit with its decoded catalog payload.
type VectorPoint struct {
	ID       string
	Document string
	Score    float64
	Product  Product
}

// VectorIndex is the similarity-search boundary. Embedding generation is the
// caller's job; the index only sees vectors.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int, pred *Predicate) ([]VectorPoint, error)
}
