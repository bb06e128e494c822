package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// TextParser handles plain text manuscripts. Blank lines separate
// paragraphs, form feeds mark page breaks, and single-line paragraphs
// matching the manuscript heading convention ("Chapter Three", "Part II",
// "Prologue") become outline entries.
type TextParser struct{}

var chapterHeading = regexp.MustCompile(`(?i)^\s*(chapter|part|book|prologue|epilogue|interlude)\b[^\n]{0,60}$`)

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := &builder{}
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		para := current.String()
		current.Reset()
		if !strings.Contains(para, "\n") && chapterHeading.MatchString(para) {
			b.heading(para, 0)
			return
		}
		b.paragraph(para)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if n := strings.Count(line, "\f"); n > 0 {
			flush()
			for range n {
				b.pageBreak()
			}
			line = strings.ReplaceAll(line, "\f", "")
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b.finish(strings.TrimSuffix(filename, ".txt")), nil
}
