package search

import (
	"sort"
	"strings"

	"github.com/sandevgo/bloombot/internal/core"
)

const (
	similarityWeight = 0.7
	businessWeight   = 0.3
)

// rerank orders candidates by a blend of vector similarity and business
// signals, then truncates to maxResults. Ties break on higher similarity,
// then lower price.
func rerank(points []core.VectorPoint, f core.SearchFilters, terms map[string]bool, maxResults int) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(points))
	for _, p := range points {
		biz := businessScore(p.Product, f, terms)
		results = append(results, core.SearchResult{
			Product:    p.Product,
			Similarity: p.Score,
			RankScore:  similarityWeight*p.Score + businessWeight*biz,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RankScore != results[j].RankScore {
			return results[i].RankScore > results[j].RankScore
		}
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Product.Price < results[j].Product.Price
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// businessScore is in [0,1]: price fit (0.4), expanded-term overlap on the
// product's attributes (0.4), and a non-trivial description (0.2).
func businessScore(p core.Product, f core.SearchFilters, terms map[string]bool) float64 {
	score := priceFit(p.Price, f) * 0.4

	attrs := append([]string{p.FlowerType}, p.Colors...)
	attrs = append(attrs, p.Occasions...)
	matched, total := 0, 0
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		total++
		if terms[attr] {
			matched++
		}
	}
	if total > 0 {
		score += float64(matched) / float64(total) * 0.4
	}

	if len(p.Description) >= 40 {
		score += 0.2
	}

	return score
}

// priceFit rewards products landing inside the requested budget; without a
// budget every price reads as a neutral half.
func priceFit(price float64, f core.SearchFilters) float64 {
	if f.PriceMin == nil && f.PriceMax == nil {
		return 0.5
	}
	if f.PriceMin != nil && price < *f.PriceMin {
		return 0
	}
	if f.PriceMax != nil && price > *f.PriceMax {
		return 0
	}
	return 1
}
