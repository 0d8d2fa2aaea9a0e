// Package session tracks per-session conversation history and in-flight
// document state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/pkg/log"
)

var (
	// ErrNoDocument reports a continuation request for a document the
	// session never ingested.
	ErrNoDocument = errors.New("no such document in session")

	// ErrDocumentComplete reports that every chunk of the document has
	// already been processed.
	ErrDocumentComplete = errors.New("document fully processed")
)

// Session is the durable state of one conversation: its turns plus any
// partially processed documents keyed by filename.
type Session struct {
	Turns     []core.ConversationTurn       `json:"turns"`
	Documents map[string]core.DocumentState `json:"documents,omitempty"`
}

// Manager owns all sessions. Like the knowledge store it is one durable
// document, loaded at start and rewritten after every mutation.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	docs        core.DocumentStore
	recentTurns int
}

func NewManager(ctx context.Context, docs core.DocumentStore, recentTurns int) (*Manager, error) {
	m := &Manager{
		sessions:    make(map[string]*Session),
		docs:        docs,
		recentTurns: recentTurns,
	}

	err := docs.Load(ctx, core.CollectionConversations, &m.sessions)
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.FromCtx(ctx).Info().Msg("no conversations found, starting empty")
	case err != nil:
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	if m.sessions == nil {
		m.sessions = make(map[string]*Session)
	}
	return m, nil
}

// NewSessionID mints an identifier for a fresh session. Sessions are
// created lazily on first use; minting alone stores nothing.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// AppendTurn records one user/bot exchange and persists the snapshot.
func (m *Manager) AppendTurn(ctx context.Context, sessionID, user, bot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(sessionID)
	s.Turns = append(s.Turns, core.ConversationTurn{
		User:      user,
		Bot:       bot,
		Timestamp: time.Now().UnixMilli(),
	})
	return m.persistLocked(ctx)
}

// RecentTurns returns a copy of the session's most recent turns, oldest
// first, capped at the configured window.
func (m *Manager) RecentTurns(sessionID string) []core.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || len(s.Turns) == 0 {
		return nil
	}

	turns := s.Turns
	if len(turns) > m.recentTurns {
		turns = turns[len(turns)-m.recentTurns:]
	}
	out := make([]core.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// AttachDocument stores the chunked document under name with the first
// chunk already counted as processed; callers summarize chunk one as part
// of ingestion.
func (m *Manager) AttachDocument(ctx context.Context, sessionID, name string, chunks []string) error {
	if len(chunks) == 0 {
		return errors.New("document has no chunks")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(sessionID)
	if s.Documents == nil {
		s.Documents = make(map[string]core.DocumentState)
	}
	s.Documents[name] = core.DocumentState{
		Chunks:        chunks,
		TotalChunks:   len(chunks),
		LastProcessed: 1,
	}
	return m.persistLocked(ctx)
}

// PeekChunk returns the next unprocessed chunk with its 1-based index
// without moving the cursor; callers advance with AdvanceChunk once the
// chunk was actually processed. ErrNoDocument and ErrDocumentComplete are
// the two expected failures.
func (m *Manager) PeekChunk(sessionID, name string) (chunk string, index, total int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.documentLocked(sessionID, name)
	if err != nil {
		return "", 0, 0, err
	}
	if state.LastProcessed >= state.TotalChunks {
		return "", 0, 0, ErrDocumentComplete
	}
	return state.Chunks[state.LastProcessed], state.LastProcessed + 1, state.TotalChunks, nil
}

// AdvanceChunk moves the document cursor past the chunk PeekChunk returned
// and persists the snapshot.
func (m *Manager) AdvanceChunk(ctx context.Context, sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.documentLocked(sessionID, name)
	if err != nil {
		return err
	}
	if state.LastProcessed >= state.TotalChunks {
		return ErrDocumentComplete
	}

	state.LastProcessed++
	m.sessions[sessionID].Documents[name] = state
	return m.persistLocked(ctx)
}

func (m *Manager) documentLocked(sessionID, name string) (core.DocumentState, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return core.DocumentState{}, ErrNoDocument
	}
	state, ok := s.Documents[name]
	if !ok {
		return core.DocumentState{}, ErrNoDocument
	}
	return state, nil
}

// DocumentProgress reports the cursor position for a session document.
func (m *Manager) DocumentProgress(sessionID, name string) (processed, total int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, found := m.sessions[sessionID]
	if !found {
		return 0, 0, false
	}
	state, found := s.Documents[name]
	if !found {
		return 0, 0, false
	}
	return state.LastProcessed, state.TotalChunks, true
}

func (m *Manager) session(id string) *Session {
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{}
		m.sessions[id] = s
	}
	return s
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if err := m.docs.Save(ctx, core.CollectionConversations, m.sessions); err != nil {
		return fmt.Errorf("failed to persist conversations: %w", err)
	}
	return nil
}
