/*
Package engine wires the core components — CharMaps, Dictionary, NameSet,
Store, Loader, Converter, and the IO Facade — into the single object a
command-line or IPC entry point actually holds onto. It is the composition
root; none of the logic here duplicates what those packages already do.
*/
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/masceron/Hanvi/internal/charmap"
	"github.com/masceron/Hanvi/internal/convert"
	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/ioapi"
	"github.com/masceron/Hanvi/internal/loader"
	"github.com/masceron/Hanvi/internal/logger"
	"github.com/masceron/Hanvi/internal/store"
)

var log = logger.New("engine")

// Engine is a fully cold-loaded Hanvi instance: a Dictionary and CharMaps
// populated from a Store, a NameSet overlay ready to be switched, a
// Converter bound to all three, and an IO Facade for edits.
type Engine struct {
	Store     *store.Store
	CharMaps  *charmap.CharMaps
	Dict      *dictionary.Dictionary
	NameSet   *dictionary.NameSet
	Converter *convert.Converter
	Facade    *ioapi.Facade

	dbPath   string
	nameSets []dictionary.NameSetMeta
}

// Open opens the store at dbPath, cold-loads it, and returns a ready
// Engine.
func Open(ctx context.Context, dbPath string, progressTick, ruleLookahead int) (*Engine, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("engine: open store: %w", err)
	}

	charMaps := charmap.New()
	dict := dictionary.New()
	nameSet := dictionary.NewNameSet()

	log.Info("cold load starting")
	result, err := loader.LoadAll(ctx, dbPath, charMaps, dict)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("engine: cold load: %w", err)
	}
	log.Infof("cold load finished, %d name sets available", len(result.NameSets))

	conv := convert.New(dict, nameSet, charMaps).WithTuning(progressTick, ruleLookahead)
	facade := ioapi.New(dict, nameSet, st)

	return &Engine{
		Store:     st,
		CharMaps:  charMaps,
		Dict:      dict,
		NameSet:   nameSet,
		Converter: conv,
		Facade:    facade,
		dbPath:    dbPath,
		nameSets:  result.NameSets,
	}, nil
}

// Close releases the Store's connection.
func (e *Engine) Close() error {
	return e.Store.Close()
}

// NameSets returns the metadata of every available NameSet.
func (e *Engine) NameSets() []dictionary.NameSetMeta {
	return e.nameSets
}

// SwitchNameSetByTitle case-insensitively looks up title among the
// available NameSets and switches the overlay to it. An empty title
// disables the overlay. An unknown title returns an error; callers that
// want the spec's "warn and continue with no overlay" CLI behavior should
// log the error themselves and call DisableNameSet.
func (e *Engine) SwitchNameSetByTitle(ctx context.Context, title string) error {
	if title == "" {
		e.DisableNameSet()
		return nil
	}
	for _, meta := range e.nameSets {
		if strings.EqualFold(meta.Title, title) {
			return e.SwitchNameSet(ctx, meta.ID)
		}
	}
	return fmt.Errorf("engine: no name set titled %q", title)
}

// SwitchNameSet rebuilds the overlay from the Store for id and activates
// it.
func (e *Engine) SwitchNameSet(ctx context.Context, id int) error {
	dict, err := loader.LoadNameSet(ctx, e.dbPath, id)
	if err != nil {
		return fmt.Errorf("engine: load name set %d: %w", id, err)
	}
	e.NameSet.Switch(id, dict)
	return nil
}

// DisableNameSet deactivates the overlay.
func (e *Engine) DisableNameSet() {
	e.NameSet.Switch(dictionary.DisabledNameSet, nil)
}
