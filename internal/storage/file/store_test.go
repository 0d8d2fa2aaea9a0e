package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandevgo/atlas/internal/core"
)

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	in := map[string][]core.KnowledgeEntry{
		"livro": {{Question: "qual é seu livro favorito", Answer: "não leio livros", Timestamp: 42}},
	}
	if err := store.Save(ctx, core.CollectionKnowledge, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out map[string][]core.KnowledgeEntry
	if err := store.Load(ctx, core.CollectionKnowledge, &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out["livro"]) != 1 || out["livro"][0].Answer != "não leio livros" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var out map[string]any
	err = store.Load(context.Background(), "never_saved", &out)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected core.ErrNotFound, got %v", err)
	}
}

func TestStore_CorruptDocumentQuarantined(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	path := filepath.Join(dir, "knowledge_base.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	var out map[string]any
	err = store.Load(ctx, "knowledge_base", &out)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected core.ErrNotFound for corrupt document, got %v", err)
	}

	// Original file is gone, quarantined copy preserved.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file should have been moved away")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	found := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "knowledge_base.json.corrupt-") {
			found = true
		}
	}
	if !found {
		t.Error("expected a quarantined copy of the corrupt document")
	}

	// Store keeps working after recovery.
	if err := store.Save(ctx, "knowledge_base", map[string]any{}); err != nil {
		t.Errorf("Save after quarantine: %v", err)
	}
}
