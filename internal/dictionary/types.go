// Package dictionary implements the trie-backed bilingual dictionary at the
// core of Hanvi: a single structure holding Name, Phrase, and Rule entries,
// searchable by longest match, plus the NameSet overlay used to override
// Name lookups for a specific document or session.
package dictionary

// Priority ranks how an entry should be preferred when more than one kind
// of match ends at the same trie node. Name strictly outranks Phrase; Rule
// matches are tracked independently of either (see Match.Rules) and are
// chosen by the converter only when no Name/Phrase match wins outright.
type Priority int

const (
	// PriorityNone marks the absence of a Name/Phrase match.
	PriorityNone Priority = iota
	// PriorityPhrase marks a Phrase match.
	PriorityPhrase
	// PriorityName marks a Name match, which always wins over Phrase.
	PriorityName
)

func (p Priority) String() string {
	switch p {
	case PriorityName:
		return "name"
	case PriorityPhrase:
		return "phrase"
	default:
		return "none"
	}
}

// Rule is a bracket-like delimiter pair with its own start/end translation,
// e.g. a quotation or parenthetical marker that carries distinct wording at
// open and close. Rules attached to a node are kept sorted by the rune
// length of OriginalEnd, longest first, so the longest closing delimiter is
// always tried before a shorter one that happens to be a prefix of it.
type Rule struct {
	OriginalStart    string
	OriginalEnd      string
	TranslationStart string
	TranslationEnd   string
}

// Match is the result of a longest-match lookup starting at some position
// in a source string. Length is the rune count consumed by the winning
// Name/Phrase span (zero if none was found). Rules is the rule list
// attached to the deepest node visited along the walk that had any rules
// at all — captured independently of whatever Name/Phrase span won, so a
// rule can be discovered even past the end of a shorter Name/Phrase match.
type Match struct {
	Length      int
	Priority    Priority
	Translation string
	Rules       []Rule
}

// Found reports whether the match carries a Name or Phrase translation.
func (m Match) Found() bool {
	return m.Priority != PriorityNone
}
