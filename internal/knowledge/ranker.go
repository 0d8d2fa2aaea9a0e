package knowledge

import (
	"sort"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/similarity"
	"github.com/sandevgo/atlas/internal/topics"
)

// Ranker scores stored exchanges against an incoming query. Candidate
// gathering goes through the query's extracted topics only; entries filed
// under unrelated topics are never compared.
type Ranker struct {
	store          *Store
	extractor      topics.Extractor
	scoreThreshold float64
}

func NewRanker(store *Store, extractor topics.Extractor, scoreThreshold float64) *Ranker {
	return &Ranker{
		store:          store,
		extractor:      extractor,
		scoreThreshold: scoreThreshold,
	}
}

// Retrieve returns up to topK entries whose recorded question scores above
// the relevance threshold against query, best first. Ties keep candidate
// order, so earlier topics and older entries win. An entry filed under
// several matching topics is scored once per topic; duplicates are dropped
// by question identity.
func (r *Ranker) Retrieve(query string, topK int) []core.ScoredEntry {
	if topK <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var scored []core.ScoredEntry

	for _, topic := range r.extractor.Extract(query) {
		for _, entry := range r.store.EntriesFor(topic) {
			if _, ok := seen[entry.Question]; ok {
				continue
			}
			seen[entry.Question] = struct{}{}

			score := similarity.Jaccard(query, entry.Question)
			if score <= r.scoreThreshold {
				continue
			}
			scored = append(scored, core.ScoredEntry{
				KnowledgeEntry: entry,
				Score:          score,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
