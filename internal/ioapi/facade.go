/*
Package ioapi implements the IO Facade: the narrow set of entry points a UI
or batch tool uses to edit dictionary entries, each of which updates the
in-memory Dictionary (or NameSet overlay) and the backing Store together.
A failed Store write is logged and the in-memory mutation is skipped, so the
two never diverge within a single call — the documented alternative to
rolling back an in-memory mutation that already happened.
*/
package ioapi

import (
	"context"
	"errors"

	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/logger"
	"github.com/masceron/Hanvi/internal/store"
)

var log = logger.New("ioapi")

// Sentinel errors for the taxonomy described in SPEC_FULL.md §7.
var (
	ErrNotText          = errors.New("ioapi: source has no text")
	ErrFileNotReadable  = errors.New("ioapi: file not readable")
	ErrFileNotWriteable = errors.New("ioapi: file not writeable")
	ErrStore            = errors.New("ioapi: store operation failed")
)

// Facade bridges Dictionary/NameSet edits to a Store.
type Facade struct {
	dict    *dictionary.Dictionary
	nameSet *dictionary.NameSet
	store   *store.Store
}

// New returns a Facade wired to the given Dictionary, NameSet overlay, and
// Store.
func New(dict *dictionary.Dictionary, nameSet *dictionary.NameSet, st *store.Store) *Facade {
	return &Facade{dict: dict, nameSet: nameSet, store: st}
}

// InsertName mirrors io_insert for priority Name: if setID is
// dictionary.DisabledNameSet, the primary Dictionary and the names table
// are updated; otherwise the name_set_entries row for setID is updated, and
// the live overlay is only touched when setID is the currently active set.
func (f *Facade) InsertName(ctx context.Context, setID int, key, value string) error {
	if setID == dictionary.DisabledNameSet {
		if err := f.store.InsertName(ctx, key, value); err != nil {
			log.Errorf("store insert name %q failed: %v", key, err)
			return ErrStore
		}
		f.dict.Insert(key, dictionary.PriorityName, value)
		return nil
	}
	if err := f.store.NameSetInsert(ctx, setID, key, value); err != nil {
		log.Errorf("store insert name_set_entries[%d] %q failed: %v", setID, key, err)
		return ErrStore
	}
	if f.nameSet.ActiveID() == setID {
		f.nameSet.Dictionary().Insert(key, dictionary.PriorityName, value)
	}
	return nil
}

// InsertPhrase mirrors io_insert for priority Phrase. Phrase inserts ignore
// setID: only the primary Dictionary carries phrases.
func (f *Facade) InsertPhrase(ctx context.Context, key, value string) error {
	if err := f.store.InsertPhrase(ctx, key, value); err != nil {
		log.Errorf("store insert phrase %q failed: %v", key, err)
		return ErrStore
	}
	f.dict.Insert(key, dictionary.PriorityPhrase, value)
	return nil
}

// ReorderPhrase mirrors io_reorder: phrase list only, primary only.
func (f *Facade) ReorderPhrase(ctx context.Context, key string, newOrder []string) error {
	if err := f.store.ReorderPhrase(ctx, key, newOrder); err != nil {
		log.Errorf("store reorder phrase %q failed: %v", key, err)
		return ErrStore
	}
	f.dict.Reorder(key, newOrder)
	return nil
}

// RemoveName mirrors io_remove for priority Name, symmetric to InsertName.
func (f *Facade) RemoveName(ctx context.Context, setID int, key string) error {
	if setID == dictionary.DisabledNameSet {
		if err := f.store.RemoveName(ctx, key); err != nil {
			log.Errorf("store remove name %q failed: %v", key, err)
			return ErrStore
		}
		f.dict.Remove(key, dictionary.PriorityName)
		return nil
	}
	if err := f.store.NameSetRemove(ctx, setID, key); err != nil {
		log.Errorf("store remove name_set_entries[%d] %q failed: %v", setID, key, err)
		return ErrStore
	}
	if f.nameSet.ActiveID() == setID {
		f.nameSet.Dictionary().Remove(key, dictionary.PriorityName)
	}
	return nil
}

// RemovePhrase mirrors io_remove for priority Phrase, primary only.
func (f *Facade) RemovePhrase(ctx context.Context, key string) error {
	if err := f.store.RemovePhrase(ctx, key); err != nil {
		log.Errorf("store remove phrase %q failed: %v", key, err)
		return ErrStore
	}
	f.dict.Remove(key, dictionary.PriorityPhrase)
	return nil
}

// RemovePhraseMeaning mirrors io_remove_meaning: primary phrases only.
func (f *Facade) RemovePhraseMeaning(ctx context.Context, key, value string) error {
	if err := f.store.RemovePhraseMeaning(ctx, key, value); err != nil {
		log.Errorf("store remove phrase meaning %q/%q failed: %v", key, value, err)
		return ErrStore
	}
	f.dict.RemoveMeaning(key, dictionary.PriorityPhrase, value)
	return nil
}

// InsertRule upserts a grammar rule in both the Dictionary and the Store.
func (f *Facade) InsertRule(ctx context.Context, r dictionary.Rule) error {
	if err := f.store.InsertRule(ctx, r); err != nil {
		log.Errorf("store insert rule %q/%q failed: %v", r.OriginalStart, r.OriginalEnd, err)
		return ErrStore
	}
	f.dict.InsertRule(r.OriginalStart, r.OriginalEnd, r.TranslationStart, r.TranslationEnd)
	return nil
}

// RemoveRule deletes a grammar rule from both the Dictionary and the Store.
func (f *Facade) RemoveRule(ctx context.Context, originalStart, originalEnd string) error {
	if err := f.store.RemoveRule(ctx, originalStart, originalEnd); err != nil {
		log.Errorf("store remove rule %q/%q failed: %v", originalStart, originalEnd, err)
		return ErrStore
	}
	f.dict.RemoveRule(originalStart, originalEnd)
	return nil
}
