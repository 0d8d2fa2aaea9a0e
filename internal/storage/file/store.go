// Package file persists each collection as one pretty-printed JSON document
// on disk, the same data/*.json layout the assistant has always used.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/pkg/log"
)

type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates the data directory if needed and returns a store rooted
// at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the collection document. A missing file is core.ErrNotFound; a
// corrupt file is quarantined with a timestamp suffix and then reported as
// core.ErrNotFound so the caller starts from an empty collection.
func (s *Store) Load(ctx context.Context, collection string, out any) error {
	path := s.path(collection)

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", collection, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.quarantine(ctx, path, err)
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Save(ctx context.Context, collection string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(collection), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}

// quarantine renames a corrupt document instead of destroying it, so the
// broken snapshot stays around for inspection.
func (s *Store) quarantine(ctx context.Context, path string, cause error) {
	quarantined := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())

	s.mu.Lock()
	renameErr := os.Rename(path, quarantined)
	s.mu.Unlock()

	logger := log.FromCtx(ctx)
	if renameErr != nil && !errors.Is(renameErr, os.ErrNotExist) {
		logger.Error().Err(renameErr).Str("path", path).Msg("failed to quarantine corrupt document")
		return
	}
	logger.Warn().Err(cause).Str("path", path).Str("moved_to", quarantined).
		Msg("corrupt document quarantined, starting from empty collection")
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}
