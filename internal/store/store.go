/*
Package store persists the Dictionary and NameSet overlay to a single SQLite
file, mirroring every mutation the in-memory trie accepts so that a cold
start can rebuild an identical Dictionary. It is deliberately a thin,
table-per-entry-kind layer: no query does more than the one read-modify-write
its caller needs, matching the original relational layout column for column.
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/masceron/Hanvi/internal/dictionary"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// Store wraps a *sql.DB holding the seven Hanvi tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the SQLite file at path, ensures the
// schema exists, and enables foreign key enforcement.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{db: db, path: path}, nil
}

// OpenReader opens a private connection to an already-initialized store
// file at path, without re-running schema creation. The Loader uses this so
// each of its parallel readers owns a connection that is not shared with
// any other goroutine.
func OpenReader(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the filesystem path this store was opened against.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Compact runs VACUUM, reclaiming space left by deleted rows. It is never
// run implicitly on Open since it locks the whole file for its duration.
func (s *Store) Compact(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// InsertName upserts a single Name entry.
func (s *Store) InsertName(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO names (original, translated) VALUES (?, ?)
		 ON CONFLICT (original) DO UPDATE SET translated = excluded.translated`,
		key, value)
	return err
}

// RemoveName deletes the Name entry at key, if present.
func (s *Store) RemoveName(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM names WHERE original = ?", key)
	return err
}

// InsertPhrase promotes value to the head of the packed phrase list stored
// at key, inserting a new row if key has no phrase entry yet. This mirrors
// the original's select-split-promote-update sequence rather than a single
// upsert, since the column packs an ordered list rather than a scalar.
func (s *Store) InsertPhrase(ctx context.Context, key, value string) error {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT translated FROM phrases WHERE original = ?", key).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.db.ExecContext(ctx, "INSERT INTO phrases (original, translated) VALUES (?, ?)", key, value)
		return err
	}
	if err != nil {
		return err
	}
	parts := strings.Split(existing, string(dictionary.Separator))
	filtered := parts[:0:0]
	for _, p := range parts {
		if p != value {
			filtered = append(filtered, p)
		}
	}
	joined := strings.Join(append([]string{value}, filtered...), string(dictionary.Separator))
	_, err = s.db.ExecContext(ctx, "UPDATE phrases SET translated = ? WHERE original = ?", joined, key)
	return err
}

// ReorderPhrase replaces the packed phrase list at key wholesale, in the
// given order.
func (s *Store) ReorderPhrase(ctx context.Context, key string, values []string) error {
	joined := strings.Join(values, string(dictionary.Separator))
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO phrases (original, translated) VALUES (?, ?)
		 ON CONFLICT (original) DO UPDATE SET translated = excluded.translated`,
		key, joined)
	return err
}

// RemovePhrase deletes the entire phrase entry at key.
func (s *Store) RemovePhrase(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM phrases WHERE original = ?", key)
	return err
}

// RemovePhraseMeaning removes one value from the packed phrase list at key.
// If the list becomes empty, the row itself is deleted rather than left
// holding an empty string.
func (s *Store) RemovePhraseMeaning(ctx context.Context, key, value string) error {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT translated FROM phrases WHERE original = ?", key).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	parts := strings.Split(existing, string(dictionary.Separator))
	filtered := parts[:0:0]
	for _, p := range parts {
		if p != value {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return s.RemovePhrase(ctx, key)
	}
	joined := strings.Join(filtered, string(dictionary.Separator))
	_, err = s.db.ExecContext(ctx, "UPDATE phrases SET translated = ? WHERE original = ?", joined, key)
	return err
}

// InsertRule upserts a grammar rule keyed by (originalStart, originalEnd).
func (s *Store) InsertRule(ctx context.Context, r dictionary.Rule) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grammar_rules (original_start, original_end, translated_start, translated_end)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (original_start, original_end) DO UPDATE SET
		   translated_start = excluded.translated_start,
		   translated_end = excluded.translated_end`,
		r.OriginalStart, r.OriginalEnd, r.TranslationStart, r.TranslationEnd)
	return err
}

// RemoveRule deletes the rule keyed by (originalStart, originalEnd).
func (s *Store) RemoveRule(ctx context.Context, originalStart, originalEnd string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM grammar_rules WHERE original_start = ? AND original_end = ?",
		originalStart, originalEnd)
	return err
}

// NameSetInsert upserts one entry of a NameSet's entries, scoped by setID.
func (s *Store) NameSetInsert(ctx context.Context, setID int, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO name_set_entries (set_id, original, translated) VALUES (?, ?, ?)
		 ON CONFLICT (set_id, original) DO UPDATE SET translated = excluded.translated`,
		setID, key, value)
	return err
}

// NameSetRemove deletes one entry of a NameSet's entries, scoped by setID.
func (s *Store) NameSetRemove(ctx context.Context, setID int, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM name_set_entries WHERE set_id = ? AND original = ?", setID, key)
	return err
}

// LoadSVReadings reads the entire sv_readings table into a rune-keyed map.
func (s *Store) LoadSVReadings(ctx context.Context) (map[rune]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT original, translated FROM sv_readings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[rune]string)
	for rows.Next() {
		var original, translated string
		if err := rows.Scan(&original, &translated); err != nil {
			return nil, err
		}
		r := firstRune(original)
		if r == 0 {
			continue
		}
		out[r] = translated
	}
	return out, rows.Err()
}

// LoadPunctuations reads the entire punctuations table into a rune-keyed
// map.
func (s *Store) LoadPunctuations(ctx context.Context) (map[rune]rune, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT original, normalized FROM punctuations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[rune]rune)
	for rows.Next() {
		var original, normalized string
		if err := rows.Scan(&original, &normalized); err != nil {
			return nil, err
		}
		k, v := firstRune(original), firstRune(normalized)
		if k == 0 || v == 0 {
			continue
		}
		out[k] = v
	}
	return out, rows.Err()
}

// LoadNames streams every (key, value) pair of the names table to fn, in
// the order the driver returns them.
func (s *Store) LoadNames(ctx context.Context, fn func(key, value string)) error {
	rows, err := s.db.QueryContext(ctx, "SELECT original, translated FROM names")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		fn(key, value)
	}
	return rows.Err()
}

// LoadPhrases streams every (key, packed value) pair of the phrases table
// to fn.
func (s *Store) LoadPhrases(ctx context.Context, fn func(key, value string)) error {
	rows, err := s.db.QueryContext(ctx, "SELECT original, translated FROM phrases")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		fn(key, value)
	}
	return rows.Err()
}

// LoadRules streams every grammar rule row to fn.
func (s *Store) LoadRules(ctx context.Context, fn func(r dictionary.Rule)) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT original_start, original_end, translated_start, translated_end FROM grammar_rules")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r dictionary.Rule
		if err := rows.Scan(&r.OriginalStart, &r.OriginalEnd, &r.TranslationStart, &r.TranslationEnd); err != nil {
			return err
		}
		fn(r)
	}
	return rows.Err()
}

// LoadNameSets reads the name_sets metadata table.
func (s *Store) LoadNameSets(ctx context.Context) ([]dictionary.NameSetMeta, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title FROM name_sets ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dictionary.NameSetMeta
	for rows.Next() {
		var m dictionary.NameSetMeta
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadNameSetEntries reads every (key, value) pair scoped to setID from
// name_set_entries.
func (s *Store) LoadNameSetEntries(ctx context.Context, setID int) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT original, translated FROM name_set_entries WHERE set_id = ?", setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

// CreateNameSet inserts a new name_sets row and returns its id.
func (s *Store) CreateNameSet(ctx context.Context, title string) (int, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO name_sets (title) VALUES (?)", title)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
