package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by DocumentStore.Load when a collection has never
// been saved.
var ErrNotFound = errors.New("document not found")

// DocumentStore persists one JSON-shaped document per collection. Both the
// knowledge base and the session log live in their own collection; writes
// replace the full snapshot.
type DocumentStore interface {
	// Load unmarshals the collection document into out.
	Load(ctx context.Context, collection string, out any) error
	// Save marshals doc and replaces the collection document.
	Save(ctx context.Context, collection string, doc any) error
}

const (
	CollectionKnowledge     = "knowledge_base"
	CollectionConversations = "conversations"
)
