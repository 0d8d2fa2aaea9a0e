// Package memory holds an in-memory DocumentStore used by tests and by
// runs that opt out of persistence.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sandevgo/atlas/internal/core"
)

type Store struct {
	mu        sync.RWMutex
	documents map[string][]byte

	// SaveCount is read by tests asserting write-through behavior.
	SaveCount int
}

func NewStore() *Store {
	return &Store{documents: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, collection string, out any) error {
	s.mu.RLock()
	data, ok := s.documents[collection]
	s.mu.RUnlock()

	if !ok {
		return core.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *Store) Save(ctx context.Context, collection string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[collection] = data
	s.SaveCount++
	return nil
}
