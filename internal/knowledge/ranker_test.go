package knowledge

import (
	"context"
	"testing"

	"github.com/sandevgo/atlas/internal/topics"
)

func newTestRanker(t *testing.T, scoreThreshold float64) (*Store, *Ranker) {
	t.Helper()

	s, _ := newTestStore(t)
	return s, NewRanker(s, topics.NewExtractor(), scoreThreshold)
}

func TestRetrieveFindsRecordedExchange(t *testing.T) {
	t.Parallel()

	s, r := newTestRanker(t, 0.3)
	ctx := context.Background()

	if err := s.RecordExchange(ctx, []string{"livro"}, "qual é seu livro favorito", "não leio livros"); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}

	// 4 shared words out of 5: score 0.8.
	got := r.Retrieve("qual é seu livro", 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Answer != "não leio livros" {
		t.Errorf("unexpected answer %q", got[0].Answer)
	}
	if got[0].Score <= 0.3 {
		t.Errorf("score %f not above threshold", got[0].Score)
	}
}

func TestRetrieveThresholdIsExclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// "qual livro você gosta" vs "qual é seu livro favorito" shares
	// {qual, livro}: 2 of 7 distinct words, score 2/7 ≈ 0.286.
	s, strict := newTestRanker(t, 0.3)
	if err := s.RecordExchange(ctx, []string{"livro"}, "qual é seu livro favorito", "não leio livros"); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}
	if got := strict.Retrieve("qual livro você gosta", 3); len(got) != 0 {
		t.Errorf("score 2/7 must not pass threshold 0.3, got %d entries", len(got))
	}

	loose := NewRanker(s, topics.NewExtractor(), 0.25)
	got := loose.Retrieve("qual livro você gosta", 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry below loosened threshold, got %d", len(got))
	}
	if got[0].Score <= 0.25 || got[0].Score > 0.3 {
		t.Errorf("expected score in (0.25, 0.3], got %f", got[0].Score)
	}
}

func TestRetrieveSortsByScoreAndCaps(t *testing.T) {
	t.Parallel()

	s, r := newTestRanker(t, 0.3)
	ctx := context.Background()

	exchanges := []struct{ question, answer string }{
		{"python linguagem ótima", "concordo"},
		{"python é bom para web", "sim, com frameworks"},
		{"python é bom", "é excelente"},
	}
	for _, e := range exchanges {
		if err := s.RecordExchange(ctx, []string{"python"}, e.question, e.answer); err != nil {
			t.Fatalf("RecordExchange(%q): %v", e.question, err)
		}
	}

	// Scores against the query: 0.2 (excluded), 0.6, 1.0.
	got := r.Retrieve("python é bom", 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries above threshold, got %d", len(got))
	}
	if got[0].Question != "python é bom" || got[1].Question != "python é bom para web" {
		t.Errorf("wrong order: %q, %q", got[0].Question, got[1].Question)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("scores not descending: %f < %f", got[0].Score, got[1].Score)
	}

	if capped := r.Retrieve("python é bom", 1); len(capped) != 1 || capped[0].Question != "python é bom" {
		t.Errorf("topK cap broken: %+v", capped)
	}
}

func TestRetrieveDeduplicatesAcrossTopics(t *testing.T) {
	t.Parallel()

	s, r := newTestRanker(t, 0.3)
	ctx := context.Background()

	if err := s.RecordExchange(ctx, []string{"python", "linux"}, "como usar python no linux", "pelo terminal"); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}

	// Query hits both topics; the shared entry must come back once.
	got := r.Retrieve("usar python linux juntos", 3)
	if len(got) != 1 {
		t.Errorf("expected 1 deduplicated entry, got %d", len(got))
	}
}

func TestRetrieveEmptyStore(t *testing.T) {
	t.Parallel()

	_, r := newTestRanker(t, 0.3)
	if got := r.Retrieve("qualquer pergunta sobre livros", 3); len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func TestRetrieveNonPositiveTopK(t *testing.T) {
	t.Parallel()

	s, r := newTestRanker(t, 0.3)
	if err := s.RecordExchange(context.Background(), []string{"café"}, "você gosta de café", "adoro"); err != nil {
		t.Fatalf("RecordExchange: %v", err)
	}
	if got := r.Retrieve("você gosta de café", 0); got != nil {
		t.Errorf("topK 0 must return nil, got %+v", got)
	}
}
