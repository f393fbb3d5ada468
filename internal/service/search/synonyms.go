package search

import "strings"

// Synonym groups for query expansion. Each group mixes English and Spanish
// terms for the same concept; matching any member appends the whole group.
var synonymGroups = [][]string{
	// flowers
	{"rose", "roses", "rosa", "rosas"},
	{"tulip", "tulips", "tulipán", "tulipanes", "tulipan", "tulipanes"},
	{"lily", "lilies", "lirio", "lirios", "azucena"},
	{"orchid", "orchids", "orquídea", "orquídeas", "orquidea"},
	{"sunflower", "sunflowers", "girasol", "girasoles"},
	{"daisy", "daisies", "margarita", "margaritas"},
	{"carnation", "carnations", "clavel", "claveles"},
	{"peony", "peonies", "peonía", "peonías", "peonia"},
	// colors
	{"red", "rojo", "roja", "rojas", "crimson"},
	{"white", "blanco", "blanca", "blancas", "ivory"},
	{"pink", "rosado", "rosada", "rosadas"},
	{"yellow", "amarillo", "amarilla", "amarillas"},
	{"purple", "violet", "morado", "morada", "lila"},
	// occasions
	{"wedding", "boda", "bridal", "nupcial"},
	{"birthday", "cumpleaños", "cumpleanos"},
	{"anniversary", "aniversario"},
	{"funeral", "condolence", "condolences", "funeral", "pésame", "pesame"},
	{"valentine", "valentines", "san valentín", "san valentin"},
	{"mother", "mothers", "madre", "madres", "mamá", "mama"},
	{"graduation", "graduación", "graduacion"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]int {
	idx := make(map[string]int)
	for i, group := range synonymGroups {
		for _, term := range group {
			idx[term] = i
		}
	}
	return idx
}

// expandQuery appends the synonym set of every recognized concept once,
// skipping terms already present in the query.
func expandQuery(query string) string {
	tokens := strings.Fields(strings.ToLower(query))

	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[tok] = true
	}

	seen := make(map[int]bool)
	expanded := tokens
	for _, tok := range tokens {
		group, ok := synonymIndex[tok]
		if !ok || seen[group] {
			continue
		}
		seen[group] = true
		for _, syn := range synonymGroups[group] {
			if !present[syn] {
				expanded = append(expanded, syn)
				present[syn] = true
			}
		}
	}

	return strings.Join(expanded, " ")
}

// expandedTerms returns the lowercase token set of an expanded query, used
// by reranking for overlap scoring.
func expandedTerms(expanded string) map[string]bool {
	terms := make(map[string]bool)
	for _, tok := range strings.Fields(expanded) {
		terms[tok] = true
	}
	return terms
}
