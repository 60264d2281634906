package dictionary

import (
	"strings"
	"sync"
)

// Separator is the in-band delimiter used by the Store to pack multiple
// phrase values into a single column (U+001F, ASCII Unit Separator). It
// never occurs in source text, so it is safe to split on unconditionally.
const Separator = '\x1F'

// Dictionary is a trie of Name, Phrase, and Rule entries searchable by
// longest match. The zero value is not usable; construct with New.
//
// A Dictionary is safe for concurrent use: InsertX/Remove* calls take the
// write lock, Find/FindExact* take the read lock. The intended usage is
// single-writer-many-reader — one cold-load or edit at a time, with any
// number of concurrent Converter reads — so the lock is rarely contended in
// practice.
type Dictionary struct {
	mu   sync.RWMutex
	root *trieNode
}

// New returns an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{root: &trieNode{}}
}

// walk returns the node reached by following key from the root, or nil if
// any edge along the way is missing.
func (d *Dictionary) walk(key string) *trieNode {
	node := d.root
	for _, r := range key {
		node = node.findChild(r)
		if node == nil {
			return nil
		}
	}
	return node
}

// walkCreate returns the node reached by following key from the root,
// creating any missing edges along the way.
func (d *Dictionary) walkCreate(key string) *trieNode {
	node := d.root
	for _, r := range key {
		node = node.ensureChild(r)
	}
	return node
}

// Insert adds a single Name or Phrase value at key. For PriorityName this
// overwrites any existing Name at key. For PriorityPhrase this promotes
// value to the head of the phrase list at key, preserving the rest of the
// list in its existing order.
func (d *Dictionary) Insert(key string, priority Priority, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walkCreate(key)
	switch priority {
	case PriorityName:
		node.setName(value)
	case PriorityPhrase:
		node.addPhrase(value)
	}
}

// InsertBulk splits value on Separator. For a Phrase it inserts every piece
// at key, preserving order (the first piece ends up as phrase head); for a
// Name it keeps only the last piece. Used by the
// Loader when bulk-populating a Dictionary from Store rows, where a single
// column may carry several packed values.
func (d *Dictionary) InsertBulk(key string, priority Priority, value string) {
	if priority != PriorityPhrase {
		// A Name column never carries more than one value; still accept a
		// packed value defensively and keep only the last piece, matching
		// the "last insert wins" overwrite semantics of a Name.
		pieces := strings.Split(value, string(Separator))
		d.Insert(key, priority, pieces[len(pieces)-1])
		return
	}
	pieces := strings.Split(value, string(Separator))
	// Insert in reverse so the first piece ends up promoted to the head.
	for i := len(pieces) - 1; i >= 0; i-- {
		d.Insert(key, priority, pieces[i])
	}
}

// Reorder replaces the phrase list at key wholesale with values, in the
// given order (values[0] becomes the new head/preferred translation).
func (d *Dictionary) Reorder(key string, values []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walkCreate(key)
	node.setPhrases(values)
}

// Remove clears the entire Name or Phrase entry at key.
func (d *Dictionary) Remove(key string, priority Priority) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walk(key)
	if node == nil {
		return
	}
	switch priority {
	case PriorityName:
		node.removeName()
	case PriorityPhrase:
		node.removePhrases()
	}
}

// RemoveMeaning removes one specific value from the entry at key. For a
// Phrase entry this drops just that value from the list; for a Name entry
// it clears the Name only when the stored Name equals value.
func (d *Dictionary) RemoveMeaning(key string, priority Priority, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walk(key)
	if node == nil {
		return
	}
	switch priority {
	case PriorityName:
		if node.name != nil && *node.name == value {
			node.removeName()
		}
	case PriorityPhrase:
		node.removePhraseMeaning(value)
	}
}

// FindExact returns the translation stored at exactly key for the given
// priority, or "" if no such entry exists. Unlike Find, this does not
// perform a longest-match walk: key must match a node exactly.
func (d *Dictionary) FindExact(key string, priority Priority) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	node := d.walk(key)
	if node == nil {
		return ""
	}
	switch priority {
	case PriorityName:
		if node.name != nil {
			return *node.name
		}
	case PriorityPhrase:
		if len(node.phrases) > 0 {
			return node.phrases[0]
		}
	}
	return ""
}

// InsertRule attaches a Rule to the node reached by originalStart, keyed by
// OriginalEnd. A rule with the same OriginalEnd already present at that
// node is replaced.
func (d *Dictionary) InsertRule(originalStart, originalEnd, translationStart, translationEnd string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walkCreate(originalStart)
	node.addRule(Rule{
		OriginalStart:    originalStart,
		OriginalEnd:      originalEnd,
		TranslationStart: translationStart,
		TranslationEnd:   translationEnd,
	})
}

// EditRule replaces the translations of an existing rule, keyed by
// (originalStart, originalEnd). If no such rule exists, it is created.
func (d *Dictionary) EditRule(originalStart, originalEnd, translationStart, translationEnd string) {
	d.InsertRule(originalStart, originalEnd, translationStart, translationEnd)
}

// RemoveRule deletes the rule keyed by (originalStart, originalEnd), if any.
func (d *Dictionary) RemoveRule(originalStart, originalEnd string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.walk(originalStart)
	if node == nil {
		return
	}
	node.removeRule(originalEnd)
}

// FindExactRule returns the rule keyed by (originalStart, originalEnd), and
// whether it was found.
func (d *Dictionary) FindExactRule(originalStart, originalEnd string) (Rule, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	node := d.walk(originalStart)
	if node == nil {
		return Rule{}, false
	}
	for _, r := range node.rules {
		if r.OriginalEnd == originalEnd {
			return r, true
		}
	}
	return Rule{}, false
}

// Find performs the core longest-match lookup starting at position start in
// text (a rune slice). It walks the trie one rune at a time for as long as
// an edge exists, and along the way:
//
//   - tracks the longest span that ends on a Name or Phrase node, with Name
//     always preferred over Phrase regardless of length once found (a
//     shorter Name match is never downgraded by a longer Phrase-only node
//     further down the same walk — but a longer Name match does replace a
//     shorter one);
//   - independently records the rule list of the deepest node visited that
//     has any rules at all, regardless of whether that node also carries a
//     winning Name/Phrase match.
//
// The zero Match (Priority: PriorityNone, Length: 0) means nothing matched
// at start at all, though Rules may still be populated.
func (d *Dictionary) Find(text []rune, start int) Match {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var result Match
	node := d.root
	for i := start; i < len(text); i++ {
		child := node.findChild(text[i])
		if child == nil {
			break
		}
		node = child
		curLen := i - start + 1

		if len(node.rules) > 0 {
			result.Rules = node.rules
		}

		if node.name != nil {
			result.Length = curLen
			result.Translation = *node.name
			result.Priority = PriorityName
		} else if result.Priority != PriorityName && len(node.phrases) > 0 {
			result.Length = curLen
			result.Translation = node.phrases[0]
			result.Priority = PriorityPhrase
		}
	}
	return result
}
