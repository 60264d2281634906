package ioapi

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/store"
)

func newTestFacade(t *testing.T) (*Facade, *dictionary.Dictionary, *dictionary.NameSet, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hanvi.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	dict := dictionary.New()
	nameSet := dictionary.NewNameSet()
	return New(dict, nameSet, st), dict, nameSet, st
}

func TestFacadeInsertNamePrimary(t *testing.T) {
	facade, dict, _, st := newTestFacade(t)
	ctx := context.Background()

	if err := facade.InsertName(ctx, dictionary.DisabledNameSet, "阮", "Nguyen"); err != nil {
		t.Fatalf("InsertName: %v", err)
	}
	if got := dict.FindExact("阮", dictionary.PriorityName); got != "Nguyen" {
		t.Fatalf("in-memory dict not updated: %q", got)
	}
	var persisted string
	st.LoadNames(ctx, func(key, value string) {
		if key == "阮" {
			persisted = value
		}
	})
	if persisted != "Nguyen" {
		t.Fatalf("store not updated: %q", persisted)
	}
}

func TestFacadeInsertNameToInactiveSetDoesNotTouchOverlay(t *testing.T) {
	facade, _, nameSet, st := newTestFacade(t)
	ctx := context.Background()

	setID, err := st.CreateNameSet(ctx, "Three Kingdoms")
	if err != nil {
		t.Fatalf("CreateNameSet: %v", err)
	}
	// overlay is not active at all (disabled), so the live overlay dictionary
	// must be left untouched even though the write still persists.
	if err := facade.InsertName(ctx, setID, "刘备", "Luu Bi"); err != nil {
		t.Fatalf("InsertName: %v", err)
	}

	entries, err := st.LoadNameSetEntries(ctx, setID)
	if err != nil {
		t.Fatalf("LoadNameSetEntries: %v", err)
	}
	if entries["刘备"] != "Luu Bi" {
		t.Fatalf("expected persisted entry, got %+v", entries)
	}

	if m := nameSet.FindInText([]rune("刘备"), 0); m.Found() {
		t.Fatalf("overlay should not reflect a write to an inactive name set: %+v", m)
	}
}

func TestFacadeInsertNameToActiveSetUpdatesLiveOverlay(t *testing.T) {
	facade, _, nameSet, st := newTestFacade(t)
	ctx := context.Background()

	setID, err := st.CreateNameSet(ctx, "Three Kingdoms")
	if err != nil {
		t.Fatalf("CreateNameSet: %v", err)
	}
	nameSet.Switch(setID, dictionary.New())

	if err := facade.InsertName(ctx, setID, "刘备", "Luu Bi"); err != nil {
		t.Fatalf("InsertName: %v", err)
	}

	m := nameSet.FindInText([]rune("刘备"), 0)
	if !m.Found() || m.Translation != "Luu Bi" {
		t.Fatalf("expected live overlay update, got %+v", m)
	}
}

func TestFacadePhraseInsertRemoveReorder(t *testing.T) {
	facade, dict, _, _ := newTestFacade(t)
	ctx := context.Background()

	if err := facade.InsertPhrase(ctx, "你好", "hello"); err != nil {
		t.Fatalf("InsertPhrase: %v", err)
	}
	if err := facade.InsertPhrase(ctx, "你好", "hi"); err != nil {
		t.Fatalf("InsertPhrase second: %v", err)
	}
	if got := dict.FindExact("你好", dictionary.PriorityPhrase); got != "hi" {
		t.Fatalf("expected head phrase %q, got %q", "hi", got)
	}

	if err := facade.ReorderPhrase(ctx, "你好", []string{"hello", "hi"}); err != nil {
		t.Fatalf("ReorderPhrase: %v", err)
	}
	if got := dict.FindExact("你好", dictionary.PriorityPhrase); got != "hello" {
		t.Fatalf("expected reordered head %q, got %q", "hello", got)
	}

	if err := facade.RemovePhraseMeaning(ctx, "你好", "hello"); err != nil {
		t.Fatalf("RemovePhraseMeaning: %v", err)
	}
	if got := dict.FindExact("你好", dictionary.PriorityPhrase); got != "hi" {
		t.Fatalf("expected remaining phrase %q, got %q", "hi", got)
	}

	if err := facade.RemovePhrase(ctx, "你好"); err != nil {
		t.Fatalf("RemovePhrase: %v", err)
	}
	if got := dict.FindExact("你好", dictionary.PriorityPhrase); got != "" {
		t.Fatalf("expected no phrase after RemovePhrase, got %q", got)
	}
}

func TestFacadeRuleInsertRemove(t *testing.T) {
	facade, dict, _, _ := newTestFacade(t)
	ctx := context.Background()

	r := dictionary.Rule{OriginalStart: "「", OriginalEnd: "」", TranslationStart: "\"", TranslationEnd: "\""}
	if err := facade.InsertRule(ctx, r); err != nil {
		t.Fatalf("InsertRule: %v", err)
	}
	if _, ok := dict.FindExactRule("「", "」"); !ok {
		t.Fatalf("expected rule present in dictionary after InsertRule")
	}

	if err := facade.RemoveRule(ctx, "「", "」"); err != nil {
		t.Fatalf("RemoveRule: %v", err)
	}
	if _, ok := dict.FindExactRule("「", "」"); ok {
		t.Fatalf("expected rule absent after RemoveRule")
	}
}
