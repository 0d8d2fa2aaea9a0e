// Package sqlite persists collection documents as JSON bodies in a single
// sqlite table, one row per collection.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/pkg/log"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load reads the collection body. An unparseable body is moved to the
// quarantine table and reported as core.ErrNotFound so the caller restarts
// from an empty collection.
func (s *Store) Load(ctx context.Context, collection string, out any) error {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ?`, collection,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query document %s: %w", collection, err)
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		s.quarantine(ctx, collection, body, err)
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Save(ctx context.Context, collection string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", collection, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(collection) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		collection, string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", collection, err)
	}
	return nil
}

func (s *Store) quarantine(ctx context.Context, collection, body string, cause error) {
	logger := log.FromCtx(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("failed to quarantine corrupt document")
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents_quarantine (collection, body) VALUES (?, ?)`, collection, body,
	); err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("failed to copy corrupt document")
		return
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ?`, collection,
	); err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("failed to remove corrupt document")
		return
	}
	if err := tx.Commit(); err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("failed to commit quarantine")
		return
	}

	logger.Warn().Err(cause).Str("collection", collection).
		Msg("corrupt document quarantined, starting from empty collection")
}
