// Package knowledge maintains the topic-indexed memory of past exchanges
// and ranks it against new queries.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/similarity"
	"github.com/sandevgo/atlas/pkg/log"
)

// Store maps normalized topic keywords to the exchanges recorded under
// them. The whole store is one durable document: it is loaded once at
// start and rewritten after every insertion. Mutations are serialized;
// reads tolerate staleness.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]core.KnowledgeEntry

	docs           core.DocumentStore
	dedupThreshold float64
}

// NewStore loads the knowledge document from docs. A missing or corrupt
// document yields an empty store; the process keeps running.
func NewStore(ctx context.Context, docs core.DocumentStore, dedupThreshold float64) (*Store, error) {
	s := &Store{
		entries:        make(map[string][]core.KnowledgeEntry),
		docs:           docs,
		dedupThreshold: dedupThreshold,
	}

	err := docs.Load(ctx, core.CollectionKnowledge, &s.entries)
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.FromCtx(ctx).Info().Msg("no knowledge base found, starting empty")
	case err != nil:
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	if s.entries == nil {
		s.entries = make(map[string][]core.KnowledgeEntry)
	}

	topicsTotal := len(s.entries)
	if topicsTotal > 0 {
		log.FromCtx(ctx).Info().Int("topics", topicsTotal).Msg("knowledge base loaded")
	}
	return s, nil
}

// RecordExchange files the question/answer pair under every topic, skipping
// topics that already hold a near-duplicate question (lexical similarity
// above the dedup threshold). The full snapshot is persisted when anything
// was inserted.
func (s *Store) RecordExchange(ctx context.Context, topics []string, question, answer string) error {
	if len(topics) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, topic := range topics {
		if s.hasNearDuplicate(topic, question) {
			continue
		}
		s.entries[topic] = append(s.entries[topic], core.KnowledgeEntry{
			Question:  question,
			Answer:    answer,
			Timestamp: now,
		})
		inserted++
	}

	if inserted == 0 {
		return nil
	}

	log.FromCtx(ctx).Debug().Int("topics", inserted).Msg("knowledge recorded")

	if err := s.docs.Save(ctx, core.CollectionKnowledge, s.entries); err != nil {
		return fmt.Errorf("failed to persist knowledge base: %w", err)
	}
	return nil
}

func (s *Store) hasNearDuplicate(topic, question string) bool {
	for _, entry := range s.entries[topic] {
		if similarity.Jaccard(entry.Question, question) > s.dedupThreshold {
			return true
		}
	}
	return false
}

// EntriesFor returns the entries recorded under topic in insertion order.
// The slice is a copy; unknown topics yield nil.
func (s *Store) EntriesFor(topic string) []core.KnowledgeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[topic]
	if len(stored) == 0 {
		return nil
	}
	out := make([]core.KnowledgeEntry, len(stored))
	copy(out, stored)
	return out
}

// Topics returns how many topics currently hold entries.
func (s *Store) Topics() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
