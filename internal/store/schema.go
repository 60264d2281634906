package store

// schema creates the seven tables backing the Dictionary and NameSet
// overlay, mirroring the on-disk layout of the original relational store.
// Each statement is idempotent so it is safe to run on every Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sv_readings (
		original TEXT PRIMARY KEY,
		translated TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS punctuations (
		original TEXT PRIMARY KEY,
		normalized TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS names (
		original TEXT PRIMARY KEY,
		translated TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS phrases (
		original TEXT PRIMARY KEY,
		translated TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS grammar_rules (
		original_start TEXT NOT NULL,
		original_end TEXT NOT NULL,
		translated_start TEXT NOT NULL,
		translated_end TEXT NOT NULL,
		PRIMARY KEY (original_start, original_end)
	)`,
	`CREATE TABLE IF NOT EXISTS name_sets (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS name_set_entries (
		set_id INTEGER NOT NULL REFERENCES name_sets(id) ON DELETE CASCADE,
		original TEXT NOT NULL,
		translated TEXT NOT NULL,
		PRIMARY KEY (set_id, original)
	)`,
}
