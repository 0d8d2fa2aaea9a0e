// Package topics derives index keys from free text. It is intentionally a
// crude keyword bag: lowercase surface tokens with stop words and short
// tokens removed, no stemming. Retrieval depends on these exact-token keys,
// so the extraction rules must not be "improved" in place; swap the whole
// extractor instead.
package topics

import "strings"

// stopWords are Portuguese closed-class words that carry no topical signal.
var stopWords = map[string]struct{}{
	"e": {}, "o": {}, "a": {}, "os": {}, "as": {}, "um": {}, "uma": {},
	"de": {}, "da": {}, "do": {}, "na": {}, "no": {}, "em": {},
	"para": {}, "por": {}, "que": {}, "quem": {}, "qual": {}, "como": {},
}

// accented letters preserved alongside word characters.
const accented = "áàâãéèêíïóôõöúçñ"

// minTokenLen: tokens this short or shorter are discarded.
const minTokenLen = 3

// Extractor produces normalized topic keywords from free text. The single
// implementation lives here; consumers hold the interface so a smarter
// extractor can replace it without touching retrieval or storage.
type Extractor interface {
	Extract(text string) []string
}

type keywordExtractor struct{}

// NewExtractor returns the keyword-bag extractor.
func NewExtractor() Extractor {
	return keywordExtractor{}
}

// Extract lowercases text, strips everything outside word characters,
// whitespace and the accented set, splits on whitespace, and returns the
// deduplicated tokens longer than three characters that are not stop words.
// First-seen order is preserved.
func (keywordExtractor) Extract(text string) []string {
	normalized := normalize(strings.ToLower(text))

	var out []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(normalized) {
		if len([]rune(word)) <= minTokenLen {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	}
	return strings.ContainsRune(accented, r)
}
