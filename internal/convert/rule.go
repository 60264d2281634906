package convert

import "github.com/masceron/Hanvi/internal/dictionary"

// ruleMatch is a successfully closed rule: the rule itself, the absolute
// position (within the text slice being processed) where its OriginalEnd
// begins, and the position just past it.
type ruleMatch struct {
	rule     dictionary.Rule
	endStart int
	totalEnd int
}

// findMatchingRule looks, starting at i, for the closest-fitting close of
// one of the rules attached to the node reached at i (all of which share
// the same OriginalStart, since that is the key their owning node was
// reached by). It searches at most lookahead runes ahead, clamped further
// by the first stopper rune encountered, and among every rule whose
// OriginalEnd is found in that window picks the one ending latest,
// breaking ties toward the longer OriginalEnd.
func findMatchingRule(text []rune, i int, rules []dictionary.Rule, lookahead int) (ruleMatch, bool) {
	limit := i + lookahead
	if limit > len(text) {
		limit = len(text)
	}
	for p := i; p < limit; p++ {
		if isStopper(text[p]) {
			limit = p
			break
		}
	}

	best := ruleMatch{}
	found := false
	for _, r := range rules {
		startLen := len([]rune(r.OriginalStart))
		searchFrom := i + startLen
		endRunes := []rune(r.OriginalEnd)
		endLen := len(endRunes)
		if endLen == 0 || searchFrom > limit {
			continue
		}
		for pos := searchFrom; pos+endLen <= limit; pos++ {
			if runesEqual(text[pos:pos+endLen], endRunes) {
				totalEnd := pos + endLen
				if !found || totalEnd > best.totalEnd ||
					(totalEnd == best.totalEnd && endLen > len([]rune(best.rule.OriginalEnd))) {
					best = ruleMatch{rule: r, endStart: pos, totalEnd: totalEnd}
					found = true
				}
				break
			}
		}
	}
	return best, found
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
