package metrics

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Counts holds scalar prose statistics for one text snapshot.
type Counts struct {
	WordCount     int `json:"word_count"`
	SentenceCount int `json:"sentence_count"`
	CharCount     int `json:"char_count"`
	ReadingGrade  int `json:"reading_grade"`
}

// Span is the half-open byte range of one sentence-level unit.
type Span struct {
	Start int
	End   int
}

// Calculate computes word, sentence, and character counts plus an ARI
// reading grade for the text. Deterministic and linear in text length;
// empty text yields all zeros.
func Calculate(text string) Counts {
	words := CountWords(text)
	sentences := len(SentenceSpans(text))
	chars := countChars(text)
	return Counts{
		WordCount:     words,
		SentenceCount: sentences,
		CharCount:     chars,
		ReadingGrade:  readingGrade(chars, words, sentences),
	}
}

// CountWords counts maximal runs of non-whitespace, non-control
// characters. Whitespace-only text counts zero words.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			count++
		}
	}
	return count
}

// SentenceSpans segments text into sentence-level units. A unit ends at a
// run of terminal punctuation (. ! ?) followed by whitespace, end-of-text,
// or closing quotation marks; a run counts as one boundary, not one per
// character. Trailing text with no terminal punctuation forms a final
// unit, so any non-empty text yields at least one span. Abbreviations
// ("Mr.") split a unit early; that is an accepted approximation.
func SentenceSpans(text string) []Span {
	var spans []Span
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
			j++
		}
		quoted := false
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !isClosingQuote(r) {
				break
			}
			quoted = true
			j += size
		}
		if quoted || j >= len(text) || nextIsSpace(text, j) {
			spans = append(spans, Span{Start: start, End: j})
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r) {
					break
				}
				j += size
			}
			start = j
		}
		i = j
	}
	if start < len(text) && strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	if len(spans) == 0 && len(text) > 0 {
		spans = []Span{{Start: 0, End: len(text)}}
	}
	return spans
}

func nextIsSpace(text string, i int) bool {
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsSpace(r)
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', '»':
		return true
	}
	return false
}

func countChars(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// readingGrade computes the Automated Readability Index grade level,
// clamped to a minimum of 1 for any non-empty text.
func readingGrade(chars, words, sentences int) int {
	if words == 0 {
		return 0
	}
	if sentences == 0 {
		sentences = 1
	}
	ari := 4.71*(float64(chars)/float64(words)) + 0.5*(float64(words)/float64(sentences)) - 21.43
	grade := int(math.Ceil(ari))
	if grade < 1 {
		grade = 1
	}
	return grade
}
