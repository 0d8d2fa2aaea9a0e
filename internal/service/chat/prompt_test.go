package chat

import (
	"strings"
	"testing"

	"github.com/sandevgo/atlas/internal/core"
)

func TestPromptBuilderWithoutTokenizer(t *testing.T) {
	t.Parallel()

	// No encoder: the knowledge block must still render in full instead of
	// failing or trimming blind.
	b := &PromptBuilder{persona: "persona", contextLimit: 1}
	entries := []core.ScoredEntry{
		{KnowledgeEntry: core.KnowledgeEntry{Question: "q um", Answer: "r um"}, Score: 0.9},
		{KnowledgeEntry: core.KnowledgeEntry{Question: "q dois", Answer: "r dois"}, Score: 0.5},
	}

	prompt := b.Chat(entries, nil, "pergunta")
	if !strings.Contains(prompt, "Q: q um") || !strings.Contains(prompt, "Q: q dois") {
		t.Errorf("entries missing from untrimmed prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Informações relevantes baseadas em conversas anteriores:") {
		t.Error("knowledge header missing")
	}
	if !strings.Contains(prompt, "Usuário: pergunta") {
		t.Error("user input missing")
	}
}

func TestPromptBuilderEmptyBlocks(t *testing.T) {
	t.Parallel()

	b := &PromptBuilder{persona: "persona", contextLimit: 100}
	prompt := b.Chat(nil, nil, "pergunta")
	if strings.Contains(prompt, "Informações relevantes") {
		t.Error("knowledge header present with no entries")
	}
	if strings.Contains(prompt, "Conversas recentes") {
		t.Error("history header present with no turns")
	}
}
