package parser

import (
	"strings"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/metrics"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

// wordsPerPage is the manuscript-standard estimate used when a format
// carries no real page boundaries.
const wordsPerPage = 250

// Document is the format-independent result of parsing a manuscript:
// flat text, an ordered outline over byte ranges of that text, and a
// display title.
type Document struct {
	Title   string          `json:"title"`
	Text    string          `json:"text"`
	Outline []outline.Entry `json:"outline"`
}

// builder accumulates flat text and outline entries as a format parser
// walks its input in document order. Blocks are separated by blank
// lines; each heading closes the previous outline entry and opens a new
// one, so entries come out ordered and non-overlapping.
type builder struct {
	text    strings.Builder
	entries []outline.Entry
	open    bool // the last entry's End is not set yet
	words   int
	page    int // explicit page number; 0 means estimate from word count
}

func (b *builder) currentPage() int {
	if b.page > 0 {
		return b.page
	}
	return 1 + b.words/wordsPerPage
}

// setPage records a real page number from the source format.
func (b *builder) setPage(n int) {
	if n > 0 {
		b.page = n
	}
}

// pageBreak advances to the next page, switching to explicit numbering
// if the document was still on word-count estimates.
func (b *builder) pageBreak() {
	if b.page == 0 {
		b.page = 1 + b.words/wordsPerPage
	}
	b.page++
}

// heading writes the title into the text and opens an outline entry
// starting at it.
func (b *builder) heading(title string, level int) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	if level < 0 {
		level = 0
	}
	b.closeEntry()
	page := b.currentPage()
	start := b.writeBlock(title)
	b.entries = append(b.entries, outline.Entry{
		Title: title,
		Level: level,
		Start: start,
		Page:  page,
	})
	b.open = true
}

// mark opens an outline entry at the current offset without writing the
// title into the text. Synthetic entries, like per-page marks for PDFs,
// use this.
func (b *builder) mark(title string, level int) {
	b.closeEntry()
	b.entries = append(b.entries, outline.Entry{
		Title: strings.TrimSpace(title),
		Level: level,
		Start: b.text.Len(),
		Page:  b.currentPage(),
	})
	b.open = true
}

func (b *builder) paragraph(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.writeBlock(text)
}

// writeBlock appends one block with a blank-line separator and returns
// the byte offset where the block begins.
func (b *builder) writeBlock(block string) int {
	block = strings.TrimSpace(block)
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	start := b.text.Len()
	b.text.WriteString(block)
	b.words += metrics.CountWords(block)
	return start
}

func (b *builder) closeEntry() {
	if !b.open {
		return
	}
	b.entries[len(b.entries)-1].End = b.text.Len()
	b.open = false
}

func (b *builder) finish(title string) *Document {
	b.closeEntry()
	return &Document{
		Title:   strings.TrimSpace(title),
		Text:    b.text.String(),
		Outline: b.entries,
	}
}
