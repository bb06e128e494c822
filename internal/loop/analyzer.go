package loop

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/metrics"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

// Kind classifies a finding. The set is closed.
type Kind string

const (
	KindRepeatedDecision Kind = "repeatedDecision"
	KindUnresolvedBelief Kind = "unresolvedBelief"
	KindContradiction    Kind = "contradiction"
)

// Finding is one detected decision-belief loop occurrence, anchored to the
// half-open byte range of the sentence that triggered it. Outline, when
// set, points into the entry slice passed to Analyze; it is never
// synthesized.
type Finding struct {
	Start   int            `json:"start"`
	End     int            `json:"end"`
	Excerpt string         `json:"excerpt"`
	Kind    Kind           `json:"kind"`
	Outline *outline.Entry `json:"outline,omitempty"`
}

// Limits bound analyzer memory and output on pathological input. Hitting
// a cap degrades result completeness; it never fails the call.
type Limits struct {
	MaxFindings   int
	MaxSignatures int
}

// DefaultLimits returns the standard soft caps.
func DefaultLimits() Limits {
	return Limits{MaxFindings: 200, MaxSignatures: 10000}
}

// Analyzer detects decision-belief loops: spans where a character's stated
// decision or belief recurs without intervening resolution or change. It
// holds only read-only configuration and is safe for concurrent use.
type Analyzer struct {
	vocab  compiled
	limits Limits
}

// New builds an Analyzer from a vocabulary and soft limits. Zero limit
// fields fall back to DefaultLimits.
func New(v Vocabulary, lim Limits) *Analyzer {
	def := DefaultLimits()
	if lim.MaxFindings <= 0 {
		lim.MaxFindings = def.MaxFindings
	}
	if lim.MaxSignatures <= 0 {
		lim.MaxSignatures = def.MaxSignatures
	}
	return &Analyzer{vocab: v.compile(), limits: lim}
}

type category int

const (
	catNone category = iota
	catDecision
	catBelief
)

func (c category) kind() Kind {
	if c == catDecision {
		return KindRepeatedDecision
	}
	return KindUnresolvedBelief
}

const maxExcerptRunes = 200

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// tracked is the most recent occurrence of a signature.
type tracked struct {
	idx     int
	subject string
}

// event marks a sentence that can resolve or reverse an earlier one.
type event struct {
	idx     int
	subject string
	cat     category
}

// Analyze scans the text in document order and reports every loop
// occurrence. Given identical text and entries the output is byte-for-byte
// reproducible. Empty or non-linguistic text yields zero findings, never
// an error.
func (a *Analyzer) Analyze(text string, entries []outline.Entry) []Finding {
	spans := metrics.SentenceSpans(text)

	var findings []Finding
	sigs := make(map[string]tracked)
	var negations []event
	var tagged []event

	for i, span := range spans {
		raw := text[span.Start:span.End]
		tokens := tokenPattern.FindAllString(strings.ToLower(raw), -1)
		if len(tokens) == 0 {
			continue
		}

		negIdx := matchAny(tokens, a.vocab.negation)
		cat, cueIdx := a.categorize(tokens)

		if negIdx >= 0 {
			negations = append(negations, event{idx: i, subject: subjectOf(tokens, negIdx)})
		}
		if cat == catNone {
			continue
		}

		subject := subjectOf(tokens, cueIdx)
		sig := a.signature(cat, tokens)
		if sig == "" {
			continue
		}

		prev, seen := sigs[sig]
		if !seen {
			if len(sigs) < a.limits.MaxSignatures {
				sigs[sig] = tracked{idx: i, subject: subject}
			}
			tagged = append(tagged, event{idx: i, subject: subject, cat: cat})
			continue
		}

		switch {
		case hasEventBetween(negations, prev.idx, i, prev.subject, catNone):
			// A reversal cue intervened: the recurrence contradicts the
			// earlier statement. Tracking restarts at this occurrence so
			// the same pair cannot also fire as a plain repeat.
			findings = append(findings, a.finding(KindContradiction, span, raw, entries))
		case hasEventBetween(tagged, prev.idx, i, prev.subject, opposite(cat)):
			// Resolved in between; not a loop.
		default:
			findings = append(findings, a.finding(cat.kind(), span, raw, entries))
		}
		sigs[sig] = tracked{idx: i, subject: subject}
		tagged = append(tagged, event{idx: i, subject: subject, cat: cat})

		if len(findings) >= a.limits.MaxFindings {
			break
		}
	}
	return findings
}

func (a *Analyzer) finding(kind Kind, span metrics.Span, raw string, entries []outline.Entry) Finding {
	f := Finding{
		Start:   span.Start,
		End:     span.End,
		Excerpt: excerptOf(raw),
		Kind:    kind,
	}
	if i := outline.Locate(entries, span.Start); i >= 0 {
		f.Outline = &entries[i]
	}
	return f
}

// categorize tags a sentence by its earliest cue match in left-to-right
// token order. A sentence matching both categories takes the one whose cue
// appears first; ties go to decision. Sentences with no cue stay untagged.
func (a *Analyzer) categorize(tokens []string) (category, int) {
	dIdx := matchAny(tokens, a.vocab.decision)
	bIdx := matchAny(tokens, a.vocab.belief)
	switch {
	case dIdx < 0 && bIdx < 0:
		return catNone, -1
	case bIdx < 0 || (dIdx >= 0 && dIdx <= bIdx):
		return catDecision, dIdx
	default:
		return catBelief, bIdx
	}
}

// signature reduces a sentence to its category plus the non-stop-word
// token sequence, so restatements of the same decision or belief collapse
// to the same key.
func (a *Analyzer) signature(cat category, tokens []string) string {
	reduced := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := a.vocab.stopWords[t]; !stop {
			reduced = append(reduced, t)
		}
	}
	if len(reduced) == 0 {
		return ""
	}
	prefix := "d|"
	if cat == catBelief {
		prefix = "b|"
	}
	return prefix + strings.Join(reduced, " ")
}

// subjectOf approximates the subject noun phrase as the token immediately
// before the matched cue, falling back to the sentence's first token.
func subjectOf(tokens []string, cueIdx int) string {
	if cueIdx > 0 {
		return tokens[cueIdx-1]
	}
	return tokens[0]
}

// matchAny returns the earliest token index where any phrase matches as a
// contiguous subsequence, or -1.
func matchAny(tokens []string, phrases [][]string) int {
	best := -1
	for _, phrase := range phrases {
		if i := matchPhrase(tokens, phrase); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func matchPhrase(tokens, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return -1
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, w := range phrase {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// hasEventBetween reports whether an event with the given subject occurred
// strictly between sentence indexes lo and hi. cat filters to one category;
// catNone accepts any.
func hasEventBetween(events []event, lo, hi int, subject string, cat category) bool {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.idx <= lo {
			break
		}
		if ev.idx >= hi {
			continue
		}
		if ev.subject != subject {
			continue
		}
		if cat == catNone || ev.cat == cat {
			return true
		}
	}
	return false
}

func opposite(cat category) category {
	if cat == catDecision {
		return catBelief
	}
	return catDecision
}

func excerptOf(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxExcerptRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxExcerptRunes-1]) + "…"
}
