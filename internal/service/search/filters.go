package search

import (
	"strings"

	"github.com/sandevgo/bloombot/internal/core"
)

// pickPredicate selects the single filter worth pushing down to the index.
// Priority: price range, then category, flower type, occasion, color. The
// rest is applied in memory after retrieval.
func pickPredicate(f core.SearchFilters) *core.Predicate {
	if f.PriceMin != nil || f.PriceMax != nil {
		return &core.Predicate{Field: "price", Min: f.PriceMin, Max: f.PriceMax}
	}
	if f.Category != "" {
		return &core.Predicate{Field: "category", Equals: f.Category}
	}
	if f.FlowerType != "" {
		return &core.Predicate{Field: "flower_type", Equals: f.FlowerType}
	}
	if f.Occasion != "" {
		return &core.Predicate{Field: "occasions", Equals: f.Occasion}
	}
	if f.Color != "" {
		return &core.Predicate{Field: "colors", Equals: f.Color}
	}
	return nil
}

// applyFilters drops candidates that fail any constraint the pushed-down
// predicate did not already enforce.
func applyFilters(points []core.VectorPoint, f core.SearchFilters, pred *core.Predicate) []core.VectorPoint {
	kept := points[:0]
	for _, p := range points {
		if matchesFilters(p.Product, f, pred) {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchesFilters(p core.Product, f core.SearchFilters, pred *core.Predicate) bool {
	pushed := func(field string) bool { return pred != nil && pred.Field == field }

	if !pushed("price") {
		if f.PriceMin != nil && p.Price < *f.PriceMin {
			return false
		}
		if f.PriceMax != nil && p.Price > *f.PriceMax {
			return false
		}
	}
	if f.Category != "" && !pushed("category") && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.FlowerType != "" && !pushed("flower_type") && !strings.EqualFold(p.FlowerType, f.FlowerType) {
		return false
	}
	if f.Occasion != "" && !pushed("occasions") && !containsFold(p.Occasions, f.Occasion) {
		return false
	}
	if f.Color != "" && !pushed("colors") && !containsFold(p.Colors, f.Color) {
		return false
	}
	if f.InStockOnly && !p.Availability {
		return false
	}
	return true
}

func containsFold(list []string, want string) bool {
	for _, item := range list {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}
