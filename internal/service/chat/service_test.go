package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/knowledge"
	"github.com/sandevgo/atlas/internal/service/generate"
	"github.com/sandevgo/atlas/internal/session"
	"github.com/sandevgo/atlas/internal/storage/memory"
	"github.com/sandevgo/atlas/internal/topics"
)

// scriptedGenerator replays a fixed reply and captures every prompt.
type scriptedGenerator struct {
	fail    bool
	reply   string
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.fail {
		return "", errors.New("fetch failed")
	}
	return g.reply, nil
}

func testKnowledgeConfig() *config.KnowledgeConfig {
	return &config.KnowledgeConfig{
		DedupThreshold:     0.7,
		ScoreThreshold:     0.3,
		TopK:               3,
		CannedThreshold:    0.6,
		MaxChunkSize:       12000,
		ContextTokenBudget: 2048,
	}
}

func newTestService(t *testing.T, gen *scriptedGenerator, cfg *config.KnowledgeConfig) *Service {
	t.Helper()

	ctx := context.Background()
	docs := memory.NewStore()

	store, err := knowledge.NewStore(ctx, docs, cfg.DedupThreshold)
	if err != nil {
		t.Fatalf("knowledge.NewStore: %v", err)
	}
	extractor := topics.NewExtractor()
	ranker := knowledge.NewRanker(store, extractor, cfg.ScoreThreshold)

	sessions, err := session.NewManager(ctx, docs, 3)
	if err != nil {
		t.Fatalf("session.NewManager: %v", err)
	}

	client := generate.NewClient(gen, &config.GenerateConfig{
		MaxAttempts: 2,
		BackoffBase: time.Millisecond,
		BackoffMax:  time.Millisecond,
		Timeout:     time.Second,
	})

	s := NewService(cfg, store, ranker, sessions, extractor, client, gen, defaultPersona)
	s.canned.pick = func(int) int { return 0 }
	return s
}

func TestRespondCanned(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{reply: "gerado"}
	s := newTestService(t, gen, testKnowledgeConfig())
	ctx := context.Background()

	reply := s.Respond(ctx, "s1", "oi")
	if !reply.Canned {
		t.Error("greeting not served from the canned table")
	}
	if reply.Offline {
		t.Error("canned reply marked offline")
	}
	if len(gen.prompts) != 0 {
		t.Errorf("canned path must not hit the generator, got %d calls", len(gen.prompts))
	}
	if turns := s.sessions.RecentTurns("s1"); len(turns) != 1 || turns[0].Bot != reply.Text {
		t.Errorf("canned exchange not recorded: %+v", turns)
	}
}

func TestRespondGeneratesWithContext(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{reply: "claro, posso explicar python!"}
	s := newTestService(t, gen, testKnowledgeConfig())
	ctx := context.Background()

	first := s.Respond(ctx, "s1", "me explica ponteiros na linguagem python")
	if first.Canned || first.Offline {
		t.Fatalf("expected generated reply, got %+v", first)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 generation, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Usuário: me explica ponteiros na linguagem python") {
		t.Error("user message missing from prompt")
	}
	if strings.Contains(gen.prompts[0], "Informações relevantes") {
		t.Error("empty knowledge base produced a context block")
	}

	// Second question on the same topic: the first exchange must come back
	// as retrieved context, and the first turn as history.
	s.Respond(ctx, "s1", "me explica mais sobre ponteiros na linguagem")
	prompt := gen.prompts[1]
	if !strings.Contains(prompt, "Informações relevantes baseadas em conversas anteriores:") {
		t.Error("retrieved knowledge missing from prompt")
	}
	if !strings.Contains(prompt, "Conversas recentes:") {
		t.Error("conversation history missing from prompt")
	}
	if !strings.Contains(prompt, "claro, posso explicar python!") {
		t.Error("previous answer missing from prompt")
	}
}

func TestRespondOfflineIsNotRecorded(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{fail: true}
	s := newTestService(t, gen, testKnowledgeConfig())
	ctx := context.Background()

	reply := s.Respond(ctx, "s1", "uma pergunta sobre física quântica")
	if !reply.Offline {
		t.Fatal("failed generation not marked offline")
	}
	if reply.Text != generate.OfflineFallback {
		t.Errorf("unexpected fallback text %q", reply.Text)
	}
	if turns := s.sessions.RecentTurns("s1"); turns != nil {
		t.Errorf("offline reply recorded as turn: %+v", turns)
	}
	if got := s.ranker.Retrieve("uma pergunta sobre física quântica", 3); len(got) != 0 {
		t.Errorf("offline reply recorded as knowledge: %+v", got)
	}
}

func TestStatusProbesGenerator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	ok := newTestService(t, &scriptedGenerator{reply: "oi"}, testKnowledgeConfig())
	if err := ok.Status(ctx); err != nil {
		t.Errorf("healthy backend reported: %v", err)
	}

	down := newTestService(t, &scriptedGenerator{fail: true}, testKnowledgeConfig())
	if err := down.Status(ctx); err == nil {
		t.Error("unreachable backend reported healthy")
	}
}
