package engine

import (
	"reflect"
	"testing"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/loop"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

func newTestEngine() *Engine {
	return New(loop.DefaultVocabulary(), loop.DefaultLimits())
}

func TestAnalyzeText_EmptyText(t *testing.T) {
	r := newTestEngine().AnalyzeText("", nil)
	if r.WordCount != 0 || r.SentenceCount != 0 || r.CharCount != 0 || r.ReadingGrade != 0 {
		t.Errorf("expected zero counts for empty text, got %+v", r)
	}
	if r.Findings == nil {
		t.Error("Findings must be non-nil even when empty")
	}
	if len(r.Findings) != 0 {
		t.Errorf("expected no findings, got %d", len(r.Findings))
	}
}

func TestAnalyzeText_ComposesMetricsAndFindings(t *testing.T) {
	text := "He decided to leave. Later, he decided to leave again."
	entries := []outline.Entry{
		{Title: "Chapter One", Level: 0, Start: 0, End: len(text), Page: 1},
	}

	r := newTestEngine().AnalyzeText(text, entries)
	if r.WordCount != 10 {
		t.Errorf("expected 10 words, got %d", r.WordCount)
	}
	if r.SentenceCount != 2 {
		t.Errorf("expected 2 sentences, got %d", r.SentenceCount)
	}
	if r.CharCount != 45 {
		t.Errorf("expected 45 non-space chars, got %d", r.CharCount)
	}
	if len(r.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(r.Findings))
	}
	f := r.Findings[0]
	if f.Kind != loop.KindRepeatedDecision {
		t.Errorf("expected kind %q, got %q", loop.KindRepeatedDecision, f.Kind)
	}
	if f.Outline == nil || f.Outline.Title != "Chapter One" {
		t.Errorf("expected outline attribution, got %+v", f.Outline)
	}
}

func TestAnalyzeText_Idempotent(t *testing.T) {
	text := "She believed the rope would hold. She believed the rope would hold."
	e := newTestEngine()
	a := e.AnalyzeText(text, nil)
	b := e.AnalyzeText(text, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results:\n%+v\n%+v", a, b)
	}
}

func TestAnalyzeText_RecordsStats(t *testing.T) {
	e := newTestEngine()
	e.AnalyzeText("One. Two. Three.", nil)
	e.AnalyzeText("Four. Five.", nil)
	if snap := e.Stats.Snapshot(); snap.Count != 2 {
		t.Errorf("expected 2 recorded runs, got %d", snap.Count)
	}
}
