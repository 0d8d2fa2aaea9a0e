package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/atlas/internal/chunker"
	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/extract"
	"github.com/sandevgo/atlas/pkg/log"
)

// DocumentInfo reports chunking progress back to the caller.
type DocumentInfo struct {
	FileName     string `json:"fileName"`
	TotalChunks  int    `json:"totalChunks"`
	CurrentChunk int    `json:"currentChunk"`
}

// IngestDocument extracts text from an uploaded document and produces an
// initial analysis. Documents above the chunk size are split; the first
// chunk is analyzed now and the rest is parked in the session for
// ContinueDocument. Info is nil when the document fit in one piece.
func (s *Service) IngestDocument(ctx context.Context, sessionID, fileName, contentType string, content []byte, userNote string) (core.Reply, *DocumentInfo, error) {
	if strings.HasPrefix(contentType, "image/") {
		reply, err := s.analyzeImage(ctx, sessionID, fileName, contentType, content, userNote)
		return reply, nil, err
	}

	text, err := extract.Text(fileName, contentType, content)
	if err != nil {
		return core.Reply{}, nil, err
	}

	entries := s.ranker.Retrieve(userNote, s.cfg.TopK)
	history := s.sessions.RecentTurns(sessionID)

	if len(text) <= s.cfg.MaxChunkSize {
		prompt := s.prompts.DocumentWhole(entries, history, fileName, text, userNote)
		reply := s.generator.Generate(ctx, prompt)
		if !reply.Offline {
			s.record(ctx, sessionID, documentTurn(userNote, fileName), reply)
		}
		return reply, nil, nil
	}

	chunks, err := chunker.Split(text, s.cfg.MaxChunkSize)
	if err != nil {
		return core.Reply{}, nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	log.FromCtx(ctx).Info().
		Str("session", sessionID).
		Str("file", fileName).
		Int("chunks", len(chunks)).
		Msg("document split for chunked analysis")

	prompt := s.prompts.DocumentFirst(entries, history, fileName, len(chunks), chunks[0], userNote)
	reply := s.generator.Generate(ctx, prompt)

	// Parked even when the analysis came back offline: the chunks are
	// already computed and the user can continue once the backend recovers.
	if err := s.sessions.AttachDocument(ctx, sessionID, fileName, chunks); err != nil {
		return core.Reply{}, nil, fmt.Errorf("failed to store document state: %w", err)
	}
	if !reply.Offline {
		if err := s.sessions.AppendTurn(ctx, sessionID, documentTurn(userNote, fileName), reply.Text); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to save turn")
		}
	}

	return reply, &DocumentInfo{FileName: fileName, TotalChunks: len(chunks), CurrentChunk: 1}, nil
}

// ContinueDocument analyzes the next parked chunk. The cursor only moves
// after a non-offline reply, so a failed continuation can be retried.
// session.ErrNoDocument and session.ErrDocumentComplete pass through for
// the transport to map.
func (s *Service) ContinueDocument(ctx context.Context, sessionID, fileName string) (core.Reply, *DocumentInfo, error) {
	chunk, index, total, err := s.sessions.PeekChunk(sessionID, fileName)
	if err != nil {
		return core.Reply{}, nil, err
	}

	history := s.sessions.RecentTurns(sessionID)
	prompt := s.prompts.DocumentNext(history, fileName, index, total, chunk)
	reply := s.generator.Generate(ctx, prompt)
	if reply.Offline {
		return reply, &DocumentInfo{FileName: fileName, TotalChunks: total, CurrentChunk: index - 1}, nil
	}

	if err := s.sessions.AdvanceChunk(ctx, sessionID, fileName); err != nil {
		return core.Reply{}, nil, fmt.Errorf("failed to advance document cursor: %w", err)
	}
	turn := fmt.Sprintf("[Documento: %s, parte %d/%d]", fileName, index, total)
	if err := s.sessions.AppendTurn(ctx, sessionID, turn, reply.Text); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to save turn")
	}

	return reply, &DocumentInfo{FileName: fileName, TotalChunks: total, CurrentChunk: index}, nil
}

func documentTurn(userNote, fileName string) string {
	if userNote == "" {
		return fmt.Sprintf("[Documento enviado: %s]", fileName)
	}
	return fmt.Sprintf("%s [Documento enviado: %s]", userNote, fileName)
}
