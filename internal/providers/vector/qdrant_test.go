package vector

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/sandevgo/bloombot/internal/core"
)

func TestBuildFilter(t *testing.T) {
	min, max := 100.0, 500.0

	tests := []struct {
		name      string
		pred      *core.Predicate
		wantNil   bool
		wantKey   string
		wantRange bool
	}{
		{
			name:    "nil predicate",
			pred:    nil,
			wantNil: true,
		},
		{
			name:    "empty predicate",
			pred:    &core.Predicate{Field: "category"},
			wantNil: true,
		},
		{
			name:    "keyword match",
			pred:    &core.Predicate{Field: "category", Equals: "bouquet"},
			wantKey: "category",
		},
		{
			name:      "price range",
			pred:      &core.Predicate{Field: "price", Min: &min, Max: &max},
			wantKey:   "price",
			wantRange: true,
		},
		{
			name:      "open-ended range",
			pred:      &core.Predicate{Field: "price", Max: &max},
			wantKey:   "price",
			wantRange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := buildFilter(tt.pred)
			if tt.wantNil {
				if f != nil {
					t.Fatalf("expected nil filter, got %+v", f)
				}
				return
			}
			if f == nil || len(f.Must) != 1 {
				t.Fatalf("expected single condition, got %+v", f)
			}
			field := f.Must[0].GetField()
			if field.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, field.Key)
			}
			if tt.wantRange && field.Range == nil {
				t.Error("expected range condition")
			}
			if !tt.wantRange && field.Match == nil {
				t.Error("expected keyword match condition")
			}
		})
	}
}

func TestDecodePoint(t *testing.T) {
	str := func(s string) *qdrant.Value {
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
	}
	sp := &qdrant.ScoredPoint{
		Id:    qdrant.NewIDUUID("prod-1"),
		Score: 0.83,
		Payload: map[string]*qdrant.Value{
			"name":         str("Red Rose Bouquet"),
			"description":  str("A dozen red roses"),
			"price":        {Kind: &qdrant.Value_DoubleValue{DoubleValue: 450}},
			"category":     str("bouquet"),
			"flower_type":  str("rose"),
			"availability": {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
			"colors": {
				Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{
					Values: []*qdrant.Value{str("red"), str("white")},
				}},
			},
		},
	}

	p := decodePoint(sp)
	if p.ID != "prod-1" {
		t.Errorf("expected id prod-1, got %q", p.ID)
	}
	if p.Score < 0.82 || p.Score > 0.84 {
		t.Errorf("expected score near 0.83, got %v", p.Score)
	}
	prod := p.Product
	if prod.Name != "Red Rose Bouquet" || prod.Price != 450 || !prod.Availability {
		t.Errorf("unexpected product decode: %+v", prod)
	}
	if len(prod.Colors) != 2 || prod.Colors[0] != "red" {
		t.Errorf("unexpected colors: %v", prod.Colors)
	}
	if prod.ID != "prod-1" {
		t.Errorf("product id must fall back to the point id, got %q", prod.ID)
	}
}

func TestClamp01(t *testing.T) {
	if clamp01(-0.2) != 0 {
		t.Error("negative scores clamp to 0")
	}
	if clamp01(1.4) != 1 {
		t.Error("scores above 1 clamp to 1")
	}
	if clamp01(0.5) != 0.5 {
		t.Error("in-range scores pass through")
	}
}
