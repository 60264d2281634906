package convert

import (
	"strings"
	"unicode"
)

// closers is the set of punctuation that should never be preceded by a
// synthesized space: a closing bracket/quote, or a sentence terminator that
// already reads naturally against whatever came before it.
const closers = ".,，;:!?)]}>\"'”’，。：；！？"

// openers is the set of punctuation that should never be followed by a
// synthesized space: an opening bracket/quote reads naturally hugging
// whatever comes after it, e.g. "(Nhi" rather than "( Nhi".
const openers = "“‘([<{"

// stoppers is the wider "does this rune end a clause" set used to clamp how
// far ahead a rule-close search looks. It is closers plus the opening curly
// quotes, which themselves start a new clause a rule window should not run
// past even though they are not closers.
const stoppers = closers + "“‘"

func isCloser(r rune) bool {
	return strings.ContainsRune(closers, r)
}

func isOpener(r rune) bool {
	return strings.ContainsRune(openers, r)
}

func isStopper(r rune) bool {
	return strings.ContainsRune(stoppers, r)
}

// escapeHTML applies the four-entity HTML escape the annotated output
// streams require. Order matters: '&' must be escaped first, or the
// entities produced for the other three characters would themselves be
// escaped on a second pass.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// capitalizeFirst uppercases the first rune of s if it is currently
// lowercase, leaving s unchanged otherwise (e.g. the first rune has no case,
// such as a digit or an already-uppercase letter).
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if !unicode.IsLower(r[0]) {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
