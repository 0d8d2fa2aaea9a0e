// Package chat orchestrates the conversational pipeline: canned replies,
// knowledge retrieval, prompt assembly, resilient generation and the
// write-back of successful exchanges.
package chat

import (
	"context"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/knowledge"
	"github.com/sandevgo/atlas/internal/service/generate"
	"github.com/sandevgo/atlas/internal/session"
	"github.com/sandevgo/atlas/internal/topics"
	"github.com/sandevgo/atlas/pkg/log"
)

type Service struct {
	cfg       *config.KnowledgeConfig
	knowledge *knowledge.Store
	ranker    *knowledge.Ranker
	sessions  *session.Manager
	extractor topics.Extractor
	generator *generate.Client
	probe     core.Generator
	vision    core.ImageAnalyzer
	canned    *Responder
	prompts   *PromptBuilder
}

func NewService(
	cfg *config.KnowledgeConfig,
	store *knowledge.Store,
	ranker *knowledge.Ranker,
	sessions *session.Manager,
	extractor topics.Extractor,
	generator *generate.Client,
	probe core.Generator,
	persona string,
) *Service {
	vision, _ := probe.(core.ImageAnalyzer)
	return &Service{
		cfg:       cfg,
		knowledge: store,
		ranker:    ranker,
		sessions:  sessions,
		extractor: extractor,
		generator: generator,
		probe:     probe,
		vision:    vision,
		canned:    NewResponder(cfg.CannedThreshold),
		prompts:   NewPromptBuilder(persona, cfg.ContextTokenBudget),
	}
}

// Respond produces the reply for one user message. Canned matches skip the
// generator entirely; everything else goes through retrieval, prompt
// assembly and the resilient generation client. Offline replies are never
// recorded, repeating the question later can still produce knowledge.
func (s *Service) Respond(ctx context.Context, sessionID, message string) core.Reply {
	if text, ok := s.canned.Match(message); ok {
		log.FromCtx(ctx).Debug().Str("session", sessionID).Msg("serving canned reply")
		reply := core.Reply{Text: text, Canned: true}
		s.record(ctx, sessionID, message, reply)
		return reply
	}

	entries := s.ranker.Retrieve(message, s.cfg.TopK)
	history := s.sessions.RecentTurns(sessionID)

	prompt := s.prompts.Chat(entries, history, message)
	log.FromCtx(ctx).Debug().
		Str("session", sessionID).
		Int("knowledge", len(entries)).
		Int("history", len(history)).
		Int("prompt_bytes", len(prompt)).
		Msg("generating reply")

	reply := s.generator.Generate(ctx, prompt)
	if !reply.Offline {
		s.record(ctx, sessionID, message, reply)
	}
	return reply
}

// Status probes the generation backend with a single direct call, no
// retries: the point is to report current reachability, not to mask it.
func (s *Service) Status(ctx context.Context) error {
	_, err := s.probe.Generate(ctx, "Olá")
	return err
}

// record appends the turn to the session and files the exchange under the
// message's topics. Persistence failures are logged, not surfaced: the
// reply is already composed and losing one write-through is acceptable.
func (s *Service) record(ctx context.Context, sessionID, message string, reply core.Reply) {
	if err := s.sessions.AppendTurn(ctx, sessionID, message, reply.Text); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to save turn")
	}
	if err := s.knowledge.RecordExchange(ctx, s.extractor.Extract(message), message, reply.Text); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to save knowledge")
	}
}
