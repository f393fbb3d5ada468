package vector

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/core"
	"github.com/sandevgo/bloombot/pkg/log"
	"github.com/sandevgo/bloombot/pkg/retry"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// QdrantIndex implements core.VectorIndex over the Qdrant gRPC API.
// Qdrant accepts composite filters, but the catalog schema is indexed for a
// single predicate per query, so callers push down at most one condition and
// post-filter the rest in memory.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	retrier    *retry.Retrier
}

func NewQdrantIndex(ctx context.Context, cfg *config.QdrantConfig) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSearchUnavailable, err)
	}

	log.FromCtx(ctx).Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("collection", cfg.Collection).
		Msg("connected to qdrant")

	return &QdrantIndex{
		client:     client,
		collection: cfg.Collection,
		retrier:    retry.NewDefaultRetrier(),
	}, nil
}

func (q *QdrantIndex) Query(ctx context.Context, vector []float32, topK int, pred *core.Predicate) ([]core.VectorPoint, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	var scored []*qdrant.ScoredPoint
	err := q.retrier.Do(ctx, func() error {
		res, err := q.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: q.collection,
			Query:          qdrant.NewQuery(vector...),
			Limit:          qdrant.PtrOf(uint64(topK)),
			WithPayload:    qdrant.NewWithPayload(true),
			Filter:         buildFilter(pred),
		})
		if err != nil {
			if !isTransient(err) {
				return retry.Permanent(err)
			}
			return err
		}
		scored = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", core.ErrSearchUnavailable, q.collection, err)
	}

	points := make([]core.VectorPoint, 0, len(scored))
	for _, sp := range scored {
		points = append(points, decodePoint(sp))
	}
	return points, nil
}

func (q *QdrantIndex) Close() error {
	return q.client.Close()
}

// buildFilter turns the single pushed-down predicate into a Qdrant filter.
func buildFilter(pred *core.Predicate) *qdrant.Filter {
	if pred == nil {
		return nil
	}

	cond := &qdrant.FieldCondition{Key: pred.Field}
	switch {
	case pred.Equals != "":
		cond.Match = &qdrant.Match{
			MatchValue: &qdrant.Match_Keyword{Keyword: pred.Equals},
		}
	case pred.Min != nil || pred.Max != nil:
		cond.Range = &qdrant.Range{Gte: pred.Min, Lte: pred.Max}
	default:
		return nil
	}

	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			{ConditionOneOf: &qdrant.Condition_Field{Field: cond}},
		},
	}
}

func decodePoint(sp *qdrant.ScoredPoint) core.VectorPoint {
	p := core.VectorPoint{
		Score: clamp01(float64(sp.Score)),
	}
	if id := sp.Id; id != nil {
		if uuid := id.GetUuid(); uuid != "" {
			p.ID = uuid
		} else {
			p.ID = fmt.Sprintf("%d", id.GetNum())
		}
	}

	payload := sp.Payload
	if payload == nil {
		return p
	}

	p.Document = payloadString(payload, "document")
	p.Product = core.Product{
		ID:           firstNonEmpty(payloadString(payload, "id"), p.ID),
		Name:         payloadString(payload, "name"),
		Description:  payloadString(payload, "description"),
		Price:        payloadFloat(payload, "price"),
		Category:     payloadString(payload, "category"),
		FlowerType:   payloadString(payload, "flower_type"),
		Colors:       payloadStrings(payload, "colors"),
		Occasions:    payloadStrings(payload, "occasions"),
		Availability: payloadBool(payload, "availability"),
	}
	return p
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func payloadFloat(payload map[string]*qdrant.Value, key string) float64 {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	if d := v.GetDoubleValue(); d != 0 {
		return d
	}
	return float64(v.GetIntegerValue())
}

func payloadBool(payload map[string]*qdrant.Value, key string) bool {
	if v, ok := payload[key]; ok {
		return v.GetBoolValue()
	}
	return false
}

func payloadStrings(payload map[string]*qdrant.Value, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list.Values))
	for _, item := range list.Values {
		if s := item.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func isTransient(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case grpccodes.Unavailable, grpccodes.DeadlineExceeded, grpccodes.Aborted, grpccodes.ResourceExhausted:
		return true
	default:
		return false
	}
}
