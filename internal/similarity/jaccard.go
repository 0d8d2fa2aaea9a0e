// Package similarity scores lexical overlap between two text fragments.
// It is the foundation of both knowledge dedup and retrieval ranking and
// deliberately stays at the bag-of-words level.
package similarity

import "strings"

// Jaccard returns |A ∩ B| / |A ∪ B| over the whitespace-delimited,
// lowercased token sets of a and b. The result is in [0, 1]. Two inputs
// that both tokenize to nothing are treated as maximally dissimilar, not
// undefined: the union size is clamped to 1 so the result is 0.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
