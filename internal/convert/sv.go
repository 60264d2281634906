package convert

import (
	"strings"

	"github.com/masceron/Hanvi/internal/charmap"
)

// getSV renders the Sino-Vietnamese reading of a short source span: every
// character's reading if known, else its normalized punctuation, else the
// character itself, joined by single spaces.
func getSV(charMaps *charmap.CharMaps, span []rune) string {
	parts := make([]string, 0, len(span))
	for _, r := range span {
		if reading, ok := charMaps.SVReading(r); ok {
			parts = append(parts, reading)
			continue
		}
		if punct, ok := charMaps.Punctuation(r); ok {
			parts = append(parts, string(punct))
			continue
		}
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " ")
}
