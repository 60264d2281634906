/*
Package convert implements the single left-to-right pass that turns a
Chinese source slice into three aligned output streams — the source itself
annotated, its Sino-Vietnamese reading annotated, and its Vietnamese
translation annotated — plus a plain-text Vietnamese-only variant. Every
emitted token carries an id shared across all three annotated streams so a
UI can highlight the matching span in each view.
*/
package convert

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/masceron/Hanvi/internal/charmap"
	"github.com/masceron/Hanvi/internal/dictionary"
)

const (
	cnStyle = `<style>a{text-decoration:none;color:white;font-family:"Noto Sans SC";font-size:18px}</style>`
	svStyle = `<style>a{text-decoration:none;color:white;font-family:"Tahoma";font-size:16px}</style>`
	vnStyle = svStyle
)

// Result is the output of a single Convert call.
type Result struct {
	CN       string
	SV       string
	VN       string
	Consumed int
}

// Converter holds the read-only collaborators a conversion consults:
// the primary Dictionary, the NameSet overlay, and the CharMaps. None of
// these are mutated by a conversion; callers must not mutate them while a
// conversion is in flight (see the concurrency contract in SPEC_FULL.md).
type Converter struct {
	dict          *dictionary.Dictionary
	nameSet       *dictionary.NameSet
	charMaps      *charmap.CharMaps
	progressTick  int
	ruleLookahead int
}

// New returns a Converter with a progress tick of 2500 and a rule lookahead
// of 25; use WithTuning to change them.
func New(dict *dictionary.Dictionary, nameSet *dictionary.NameSet, charMaps *charmap.CharMaps) *Converter {
	return &Converter{
		dict:          dict,
		nameSet:       nameSet,
		charMaps:      charMaps,
		progressTick:  2500,
		ruleLookahead: 25,
	}
}

// WithTuning overrides the progress tick and rule lookahead window. A value
// that is zero or negative leaves the current setting unchanged.
func (c *Converter) WithTuning(progressTick, ruleLookahead int) *Converter {
	if progressTick > 0 {
		c.progressTick = progressTick
	}
	if ruleLookahead > 0 {
		c.ruleLookahead = ruleLookahead
	}
	return c
}

// run carries the state threaded through a single conversion's recursive
// descent: the token counter and cap_next flag are shared across every
// nested rule call, since a rule's inner content is still part of the same
// left-to-right pass and the same id sequence.
type run struct {
	c        *Converter
	plain    bool
	counter  int
	capNext  bool
	consumed int
	progress func(int)
}

func (r *run) nextID() int {
	id := r.counter
	r.counter++
	return id
}

func (r *run) advance(n int) {
	before := r.consumed / r.c.progressTick
	r.consumed += n
	after := r.consumed / r.c.progressTick
	if r.progress != nil && after > before {
		r.progress(r.consumed)
	}
}

// Convert runs a full annotated conversion over text, calling progress
// (if non-nil) as the consumed-character count crosses each multiple of the
// configured progress tick.
func (c *Converter) Convert(text string, progress func(int)) Result {
	runes := []rune(text)
	r := &run{c: c, plain: false, capNext: true, progress: progress}
	var cn, sv, vn strings.Builder
	cn.WriteString(cnStyle)
	sv.WriteString(svStyle)
	vn.WriteString(vnStyle)
	r.process(runes, &cn, &sv, &vn)
	return Result{CN: cn.String(), SV: sv.String(), VN: vn.String(), Consumed: r.consumed}
}

// ConvertPlain runs the same pass but returns only the Vietnamese text, with
// no HTML annotation, trimmed at both ends.
func (c *Converter) ConvertPlain(text string, progress func(int)) string {
	runes := []rune(text)
	r := &run{c: c, plain: true, capNext: true, progress: progress}
	var vn strings.Builder
	r.process(runes, nil, nil, &vn)
	return strings.TrimSpace(vn.String())
}

// process walks text left to right, appending to cn/sv/vn (cn and sv may be
// nil in plain mode). It recurses only to render a rule's inner slice,
// passing the same builders and the same *run so ids and cap_next stay
// coherent across the whole document.
func (r *run) process(text []rune, cn, sv, vn *strings.Builder) {
	i := 0
	for i < len(text) {
		ch := text[i]

		if ch == '\n' {
			if r.plain {
				vn.WriteString("\n")
			} else {
				cn.WriteString("<br>")
				sv.WriteString("<br>")
				vn.WriteString("<br>")
			}
			r.capNext = true
			r.advance(1)
			i++
			continue
		}
		if unicode.IsSpace(ch) {
			if r.plain {
				vn.WriteString(" ")
			} else {
				cn.WriteString("&nbsp;")
				sv.WriteString("&nbsp;")
				vn.WriteString("&nbsp;")
			}
			r.advance(1)
			i++
			continue
		}

		if overlayMatch := r.c.nameSet.FindInText(text, i); overlayMatch.Priority == dictionary.PriorityName && overlayMatch.Length > 0 {
			r.emitSpan(text, i, overlayMatch.Length, overlayMatch.Translation, cn, sv, vn)
			i += overlayMatch.Length
			continue
		}

		primaryMatch := r.c.dict.Find(text, i)

		if primaryMatch.Priority == dictionary.PriorityName && primaryMatch.Length > 0 {
			r.emitSpan(text, i, primaryMatch.Length, primaryMatch.Translation, cn, sv, vn)
			i += primaryMatch.Length
			continue
		}

		if len(primaryMatch.Rules) > 0 {
			if rm, ok := findMatchingRule(text, i, primaryMatch.Rules, r.c.ruleLookahead); ok {
				startLen := len([]rune(rm.rule.OriginalStart))
				phraseOverridesRule := primaryMatch.Priority == dictionary.PriorityPhrase && primaryMatch.Length > startLen
				if !phraseOverridesRule {
					r.emitRule(text, i, rm, cn, sv, vn)
					i = rm.totalEnd
					continue
				}
			}
		}

		if primaryMatch.Priority == dictionary.PriorityPhrase && primaryMatch.Length > 0 {
			length := primaryMatch.Length
			conflict := r.phraseConflict(text, i, length)
			if conflict == -1 {
				r.emitSpan(text, i, length, primaryMatch.Translation, cn, sv, vn)
				i += length
				continue
			}
			if translation, prio, shrunk, ok := r.shrinkPhrase(text, i, conflict); ok {
				_ = prio
				r.emitSpan(text, i, shrunk, translation, cn, sv, vn)
				i += shrunk
				continue
			}
			// fall through to single-char
		}

		r.emitChar(text, i, cn, sv, vn)
		i++
		r.advance(1)
	}
}

// phraseConflict returns the first position p in (i, i+length) at which a
// longer or higher-priority match begins, or -1 if the phrase span is
// optimal.
func (r *run) phraseConflict(text []rune, i, length int) int {
	threshold := length
	if threshold < 3 {
		threshold = 3
	}
	for p := i + 1; p < i+length; p++ {
		if overlay := r.c.nameSet.FindInText(text, p); overlay.Priority == dictionary.PriorityName && overlay.Length > 0 {
			return p
		}
		m := r.c.dict.Find(text, p)
		if m.Priority == dictionary.PriorityName && m.Length > 0 {
			return p
		}
		if m.Length > threshold {
			return p
		}
	}
	return -1
}

// shrinkPhrase retries exact lookups at lengths conflict-i, conflict-i-1,
// ..., 1, in that order, returning the first hit across NameSet Name,
// primary Name, then primary Phrase head.
func (r *run) shrinkPhrase(text []rune, i, conflict int) (translation string, prio dictionary.Priority, length int, ok bool) {
	for l := conflict - i; l >= 1; l-- {
		key := string(text[i : i+l])
		if r.c.nameSet.Active() {
			if v := r.c.nameSet.Dictionary().FindExact(key, dictionary.PriorityName); v != "" {
				return v, dictionary.PriorityName, l, true
			}
		}
		if v := r.c.dict.FindExact(key, dictionary.PriorityName); v != "" {
			return v, dictionary.PriorityName, l, true
		}
		if v := r.c.dict.FindExact(key, dictionary.PriorityPhrase); v != "" {
			return v, dictionary.PriorityPhrase, l, true
		}
	}
	return "", dictionary.PriorityNone, 0, false
}

// emitSpan renders a Name or Phrase span at [i, i+length) into all three
// streams (only vn in plain mode), applying capitalization and post-span
// spacing.
func (r *run) emitSpan(text []rune, i, length int, translation string, cn, sv, vn *strings.Builder) {
	source := text[i : i+length]
	svText := getSV(r.c.charMaps, source)
	vnText := translation

	if r.capNext {
		svText = capitalizeFirst(svText)
		vnText = capitalizeFirst(vnText)
		r.capNext = false
	}

	if r.plain {
		vn.WriteString(vnText)
	} else {
		uid := strconv.Itoa(r.nextID())
		cn.WriteString(anchor(uid, escapeHTML(string(source))))
		sv.WriteString(anchor(uid, escapeHTML(svText)))
		vn.WriteString(anchor(uid, escapeHTML(vnText)))
	}

	r.advance(length)
	r.spaceAfter(text, i+length, 0, sv, vn)
}

// emitRule renders a closed rule span: an opening anchor over OriginalStart,
// the recursively-rendered inner slice, and a closing anchor over
// OriginalEnd, then applies post-span spacing exactly as a normal span
// would.
func (r *run) emitRule(text []rune, i int, rm ruleMatch, cn, sv, vn *strings.Builder) {
	startLen := len([]rune(rm.rule.OriginalStart))
	innerStart := i + startLen
	inner := text[innerStart:rm.endStart]

	translationStart := rm.rule.TranslationStart
	if r.capNext {
		translationStart = capitalizeFirst(translationStart)
		r.capNext = false
	}

	if r.plain {
		if translationStart != "" {
			vn.WriteString(translationStart)
			vn.WriteString(" ")
		}
		r.advance(startLen)
		r.process(inner, nil, nil, vn)
		if rm.rule.TranslationEnd != "" {
			vn.WriteString(rm.rule.TranslationEnd)
		}
		r.advance(rm.totalEnd - rm.endStart)
		r.spaceAfter(text, rm.totalEnd, 0, nil, vn)
		return
	}

	uid := "r" + strconv.Itoa(r.nextID())

	cn.WriteString(anchor(uid, escapeHTML(rm.rule.OriginalStart)))
	sv.WriteString(anchor(uid, escapeHTML(getSV(r.c.charMaps, []rune(rm.rule.OriginalStart))+" ")))
	if translationStart != "" {
		vn.WriteString(anchor(uid, escapeHTML(translationStart+" ")))
	}
	r.advance(startLen)

	r.process(inner, cn, sv, vn)

	cn.WriteString(anchor(uid, escapeHTML(rm.rule.OriginalEnd)))
	sv.WriteString(anchor(uid, escapeHTML(getSV(r.c.charMaps, []rune(rm.rule.OriginalEnd)))))
	if rm.rule.TranslationEnd != "" {
		vn.WriteString(anchor(uid, escapeHTML(rm.rule.TranslationEnd)))
	}
	r.advance(rm.totalEnd - rm.endStart)

	r.spaceAfter(text, rm.totalEnd, 0, sv, vn)
}

// emitChar is the single-character fallback: sv_readings, then
// punctuations, then the character itself, echoed to every stream.
func (r *run) emitChar(text []rune, i int, cn, sv, vn *strings.Builder) {
	ch := text[i]
	translated := ""
	if reading, ok := r.c.charMaps.SVReading(ch); ok {
		translated = reading
	} else if punct, ok := r.c.charMaps.Punctuation(ch); ok {
		translated = string(punct)
	} else {
		translated = string(ch)
	}

	if r.capNext {
		translated = capitalizeFirst(translated)
		r.capNext = false
	}
	if tr := []rune(translated); len(tr) == 1 && strings.ContainsRune(".!?…:;\"", tr[0]) {
		r.capNext = true
	}

	if r.plain {
		vn.WriteString(translated)
	} else {
		uid := strconv.Itoa(r.nextID())
		cn.WriteString(anchor(uid, escapeHTML(string(ch))))
		sv.WriteString(anchor(uid, escapeHTML(translated)))
		vn.WriteString(anchor(uid, escapeHTML(translated)))
	}
	r.spaceAfter(text, i+1, ch, sv, vn)
}

// spaceAfter appends a single space to sv and vn when the next rune in text
// (if any) is not in the closer set and the character just emitted, justEmitted,
// is not an opener; cn never receives a post-span space. justEmitted is the
// zero rune for span and rule emission, which never fall through to a bare
// opening bracket/quote on their own.
func (r *run) spaceAfter(text []rune, pos int, justEmitted rune, sv, vn *strings.Builder) {
	if pos >= len(text) || isCloser(text[pos]) || isOpener(justEmitted) {
		return
	}
	if sv != nil {
		sv.WriteString(" ")
	}
	vn.WriteString(" ")
}

func anchor(uid, body string) string {
	return "<a href='" + uid + "'>" + body + "</a>"
}
