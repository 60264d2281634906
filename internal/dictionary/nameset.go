package dictionary

import "sync"

// DisabledNameSet is the sentinel id meaning "no NameSet overlay active".
const DisabledNameSet = -1

// NameSetMeta describes one NameSet row without loading its entries.
type NameSetMeta struct {
	ID    int
	Title string
}

// NameSet is the Name-only overlay dictionary: a secondary Dictionary that,
// when active, is consulted before the primary Dictionary for Name matches
// only. It is swapped wholesale on Switch rather than mutated entry by
// entry, since a different NameSet is a different document's worth of
// proper-noun overrides. Because the overlay Dictionary only ever has Name
// entries inserted into it, a plain Find on it can never surface a Phrase
// or Rule result, which is what keeps it "semantically restricted to Name
// payloads" without extra bookkeeping.
type NameSet struct {
	mu      sync.RWMutex
	id      int
	overlay *Dictionary
}

// NewNameSet returns a NameSet with no overlay active.
func NewNameSet() *NameSet {
	return &NameSet{id: DisabledNameSet, overlay: New()}
}

// ActiveID reports the currently active overlay id, or DisabledNameSet.
func (ns *NameSet) ActiveID() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.id
}

// Active reports whether an overlay is currently selected.
func (ns *NameSet) Active() bool {
	return ns.ActiveID() != DisabledNameSet
}

// Switch replaces the overlay wholesale with dict, scoped to id. Passing
// DisabledNameSet disables the overlay (dict is ignored in that case).
func (ns *NameSet) Switch(id int, dict *Dictionary) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.id = id
	if id == DisabledNameSet {
		ns.overlay = New()
		return
	}
	ns.overlay = dict
}

// FindInText performs a longest-match walk on the overlay starting at pos,
// same as Dictionary.Find, returning the zero Match when the overlay is
// disabled.
func (ns *NameSet) FindInText(text []rune, pos int) Match {
	ns.mu.RLock()
	id := ns.id
	overlay := ns.overlay
	ns.mu.RUnlock()
	if id == DisabledNameSet {
		return Match{}
	}
	return overlay.Find(text, pos)
}

// Dictionary returns the overlay's underlying Dictionary, for use by the IO
// Facade when editing entries of the currently active set in place, and by
// the converter's exact-match fallback during phrase shrinking.
func (ns *NameSet) Dictionary() *Dictionary {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return ns.overlay
}
