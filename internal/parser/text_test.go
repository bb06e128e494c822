package parser

import (
	"strings"
	"testing"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

func TestTextParser_ParagraphsAndHeadings(t *testing.T) {
	input := "Chapter One\n\nIt was a dark night.\nThe wind howled.\n\nChapter Two\n\nMorning came at last.\n"
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "novel.txt")
	if err != nil {
		t.Fatal(err)
	}

	if doc.Title != "novel" {
		t.Errorf("expected title %q, got %q", "novel", doc.Title)
	}
	if len(doc.Outline) != 2 {
		t.Fatalf("expected 2 outline entries, got %d: %+v", len(doc.Outline), doc.Outline)
	}
	if doc.Outline[0].Title != "Chapter One" || doc.Outline[1].Title != "Chapter Two" {
		t.Errorf("unexpected entry titles: %+v", doc.Outline)
	}
	if err := outline.Validate(doc.Outline); err != nil {
		t.Errorf("outline fails validation: %v", err)
	}

	// Each entry's range must cover its own heading and prose.
	first := doc.Text[doc.Outline[0].Start:doc.Outline[0].End]
	if !strings.Contains(first, "The wind howled.") || strings.Contains(first, "Morning") {
		t.Errorf("entry 0 covers wrong range: %q", first)
	}
	if doc.Outline[1].End != len(doc.Text) {
		t.Errorf("last entry should extend to end of text, got %d of %d", doc.Outline[1].End, len(doc.Text))
	}

	// Locate resolves prose offsets to the right chapter.
	off := strings.Index(doc.Text, "Morning")
	if got := outline.Locate(doc.Outline, off); got != 1 {
		t.Errorf("Locate(%d): expected entry 1, got %d", off, got)
	}
}

func TestTextParser_NoHeadings(t *testing.T) {
	input := "Just some prose.\n\nAnd a second paragraph.\n"
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "draft.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Outline) != 0 {
		t.Errorf("expected no outline entries, got %+v", doc.Outline)
	}
	if doc.Text != "Just some prose.\n\nAnd a second paragraph." {
		t.Errorf("unexpected text: %q", doc.Text)
	}
}

func TestTextParser_HeadingInsideProseIgnored(t *testing.T) {
	// The word "chapter" inside a multi-line paragraph is prose, not a
	// heading.
	input := "She opened the book to\nchapter three and read.\n"
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Outline) != 0 {
		t.Errorf("expected no outline entries, got %+v", doc.Outline)
	}
}

func TestTextParser_FormFeedPages(t *testing.T) {
	input := "Prologue\n\nPage one prose.\n\f\nPage two prose.\n\nChapter One\n\nMore prose.\n"
	doc, err := (&TextParser{}).Parse(strings.NewReader(input), "b.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Outline) != 2 {
		t.Fatalf("expected 2 entries, got %+v", doc.Outline)
	}
	if doc.Outline[0].Page != 1 {
		t.Errorf("expected prologue on page 1, got %d", doc.Outline[0].Page)
	}
	if doc.Outline[1].Page != 2 {
		t.Errorf("expected chapter one on page 2, got %d", doc.Outline[1].Page)
	}
}

func TestTextParser_EstimatedPages(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Chapter One\n\n")
	// Enough words to push past one estimated page.
	for range 60 {
		sb.WriteString("word word word word word\n\n")
	}
	sb.WriteString("Chapter Two\n\nDone.\n")

	doc, err := (&TextParser{}).Parse(strings.NewReader(sb.String()), "c.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Outline) != 2 {
		t.Fatalf("expected 2 entries, got %+v", doc.Outline)
	}
	if doc.Outline[0].Page != 1 {
		t.Errorf("expected chapter one on page 1, got %d", doc.Outline[0].Page)
	}
	if doc.Outline[1].Page < 2 {
		t.Errorf("expected chapter two on a later page, got %d", doc.Outline[1].Page)
	}
}
