package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/masceron/Hanvi/internal/charmap"
	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/store"
)

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hanvi.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	ctx := context.Background()
	if err := st.InsertName(ctx, "阮", "Nguyen"); err != nil {
		t.Fatalf("seed name: %v", err)
	}
	if err := st.InsertPhrase(ctx, "你好", "hello"); err != nil {
		t.Fatalf("seed phrase: %v", err)
	}
	if err := st.InsertRule(ctx, dictionary.Rule{OriginalStart: "「", OriginalEnd: "」", TranslationStart: "\"", TranslationEnd: "\""}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	if _, err := st.CreateNameSet(ctx, "Three Kingdoms"); err != nil {
		t.Fatalf("seed name set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close seed store: %v", err)
	}
	return path
}

func TestLoadAllPopulatesCharMapsAndDictionary(t *testing.T) {
	path := seedDB(t)
	charMaps := charmap.New()
	dict := dictionary.New()

	result, err := LoadAll(context.Background(), path, charMaps, dict)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(result.NameSets) != 1 || result.NameSets[0].Title != "Three Kingdoms" {
		t.Fatalf("unexpected name sets: %+v", result.NameSets)
	}
	if got := dict.FindExact("阮", dictionary.PriorityName); got != "Nguyen" {
		t.Fatalf("name not loaded: %q", got)
	}
	if got := dict.FindExact("你好", dictionary.PriorityPhrase); got != "hello" {
		t.Fatalf("phrase not loaded: %q", got)
	}
	if _, ok := dict.FindExactRule("「", "」"); !ok {
		t.Fatalf("rule not loaded")
	}
}

func TestLoadNameSetBuildsScopedOverlay(t *testing.T) {
	path := seedDB(t)
	ctx := context.Background()

	st, err := store.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer st.Close()
	sets, err := st.LoadNameSets(ctx)
	if err != nil || len(sets) != 1 {
		t.Fatalf("LoadNameSets: %v, %+v", err, sets)
	}
	if err := st.NameSetInsert(ctx, sets[0].ID, "刘备", "Luu Bi"); err != nil {
		t.Fatalf("NameSetInsert: %v", err)
	}

	overlay, err := LoadNameSet(ctx, path, sets[0].ID)
	if err != nil {
		t.Fatalf("LoadNameSet: %v", err)
	}
	if got := overlay.FindExact("刘备", dictionary.PriorityName); got != "Luu Bi" {
		t.Fatalf("overlay missing entry: %q", got)
	}
}
