/*
Package loader implements Hanvi's cold-start: populating an empty
CharMaps and Dictionary from a Store as quickly as possible by fanning the
work out across independent readers instead of doing it as one long serial
scan.
*/
package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/masceron/Hanvi/internal/charmap"
	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/logger"
	"github.com/masceron/Hanvi/internal/store"
)

var log = logger.New("loader")

// Result carries what a successful LoadAll produced beyond populating the
// CharMaps and Dictionary in place: the NameSet metadata, which the caller
// needs to offer a set picker before any overlay is actually switched in.
type Result struct {
	NameSets []dictionary.NameSetMeta
}

// LoadAll populates charMaps and dict from the database at path, using
// three parallel readers — one for sv_readings, one for punctuations, one
// bulk-loading names, phrases, and grammar rules into dict — each opened
// against its own connection so no reader shares state with another. The
// name_sets metadata read runs on the calling goroutine while those three
// run in the background. LoadAll returns once every reader has finished;
// the first error from any reader aborts the whole load.
func LoadAll(ctx context.Context, path string, charMaps *charmap.CharMaps, dict *dictionary.Dictionary) (Result, error) {
	primary, err := store.OpenReader(path)
	if err != nil {
		return Result{}, fmt.Errorf("loader: open metadata connection: %w", err)
	}
	defer primary.Close()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loadSVReadings(gctx, path, charMaps)
	})
	group.Go(func() error {
		return loadPunctuations(gctx, path, charMaps)
	})
	group.Go(func() error {
		return loadDictionary(gctx, path, dict)
	})

	nameSets, metaErr := primary.LoadNameSets(ctx)
	if metaErr != nil {
		log.Errorf("failed to read name_sets metadata: %v", metaErr)
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}
	if metaErr != nil {
		return Result{}, fmt.Errorf("loader: read name_sets: %w", metaErr)
	}

	log.Infof("cold load complete (%d name sets available)", len(nameSets))
	return Result{NameSets: nameSets}, nil
}

func loadSVReadings(ctx context.Context, path string, charMaps *charmap.CharMaps) error {
	s, err := store.OpenReader(path)
	if err != nil {
		return fmt.Errorf("loader: sv_readings connection: %w", err)
	}
	defer s.Close()
	m, err := s.LoadSVReadings(ctx)
	if err != nil {
		return fmt.Errorf("loader: read sv_readings: %w", err)
	}
	charMaps.SetSVReadings(m)
	log.Debugf("loaded %d sv_readings", len(m))
	return nil
}

func loadPunctuations(ctx context.Context, path string, charMaps *charmap.CharMaps) error {
	s, err := store.OpenReader(path)
	if err != nil {
		return fmt.Errorf("loader: punctuations connection: %w", err)
	}
	defer s.Close()
	m, err := s.LoadPunctuations(ctx)
	if err != nil {
		return fmt.Errorf("loader: read punctuations: %w", err)
	}
	charMaps.SetPunctuations(m)
	log.Debugf("loaded %d punctuations", len(m))
	return nil
}

func loadDictionary(ctx context.Context, path string, dict *dictionary.Dictionary) error {
	s, err := store.OpenReader(path)
	if err != nil {
		return fmt.Errorf("loader: dictionary connection: %w", err)
	}
	defer s.Close()

	names := 0
	if err := s.LoadNames(ctx, func(key, value string) {
		dict.InsertBulk(key, dictionary.PriorityName, value)
		names++
	}); err != nil {
		return fmt.Errorf("loader: read names: %w", err)
	}

	phrases := 0
	if err := s.LoadPhrases(ctx, func(key, value string) {
		dict.InsertBulk(key, dictionary.PriorityPhrase, value)
		phrases++
	}); err != nil {
		return fmt.Errorf("loader: read phrases: %w", err)
	}

	rules := 0
	if err := s.LoadRules(ctx, func(r dictionary.Rule) {
		dict.InsertRule(r.OriginalStart, r.OriginalEnd, r.TranslationStart, r.TranslationEnd)
		rules++
	}); err != nil {
		return fmt.Errorf("loader: read grammar_rules: %w", err)
	}

	log.Debugf("loaded %d names, %d phrases, %d rules", names, phrases, rules)
	return nil
}

// LoadNameSet rebuilds a fresh Dictionary scoped to setID from the Store at
// path and returns it, ready to be handed to (*dictionary.NameSet).Switch.
func LoadNameSet(ctx context.Context, path string, setID int) (*dictionary.Dictionary, error) {
	s, err := store.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("loader: nameset connection: %w", err)
	}
	defer s.Close()

	entries, err := s.LoadNameSetEntries(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("loader: read name_set_entries: %w", err)
	}

	dict := dictionary.New()
	for key, value := range entries {
		dict.InsertBulk(key, dictionary.PriorityName, value)
	}
	return dict, nil
}
