package loop

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

func defaultAnalyzer() *Analyzer {
	return New(DefaultVocabulary(), DefaultLimits())
}

func TestAnalyze_EmptyText(t *testing.T) {
	findings := defaultAnalyzer().Analyze("", nil)
	if len(findings) != 0 {
		t.Fatalf("expected no findings for empty text, got %d", len(findings))
	}
}

func TestAnalyze_NonLinguisticText(t *testing.T) {
	findings := defaultAnalyzer().Analyze("!!! ### 12345 @@@ ???", nil)
	if len(findings) != 0 {
		t.Fatalf("expected no findings for non-linguistic text, got %d", len(findings))
	}
}

func TestAnalyze_RepeatedDecision(t *testing.T) {
	text := "He decided to leave. Later, he decided to leave again."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Kind != KindRepeatedDecision {
		t.Errorf("expected kind %q, got %q", KindRepeatedDecision, f.Kind)
	}
	if got := text[f.Start:f.End]; got != "Later, he decided to leave again." {
		t.Errorf("expected anchor at second sentence, got %q", got)
	}
	if f.Outline != nil {
		t.Errorf("expected no outline context without outline data, got %+v", f.Outline)
	}
}

func TestAnalyze_UnresolvedBelief(t *testing.T) {
	text := "She believed the rope would hold. She believed the rope would hold."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Kind != KindUnresolvedBelief {
		t.Errorf("expected kind %q, got %q", KindUnresolvedBelief, findings[0].Kind)
	}
}

func TestAnalyze_ContradictionResetsTracking(t *testing.T) {
	text := "He decided to leave. He changed his mind and stayed. He decided to leave."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 finding, got %d: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Kind != KindContradiction {
		t.Errorf("expected kind %q, got %q", KindContradiction, f.Kind)
	}
	if got := text[f.Start:f.End]; got != "He decided to leave." || f.Start == 0 {
		t.Errorf("expected anchor at the recurrence, got %q at %d", got, f.Start)
	}
}

func TestAnalyze_OppositeCategoryResolves(t *testing.T) {
	// A belief statement by the same subject between two identical
	// decisions counts as resolution; no loop is reported.
	text := "He decided to sail at dawn. He believed the storm had passed. He decided to sail at dawn."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %d: %+v", len(findings), findings)
	}
}

func TestAnalyze_DifferentSubjectsDoNotResolve(t *testing.T) {
	text := "He decided to sail at dawn. She believed the storm had passed. He decided to sail at dawn."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Kind != KindRepeatedDecision {
		t.Errorf("expected kind %q, got %q", KindRepeatedDecision, findings[0].Kind)
	}
}

func TestAnalyze_OneFindingPerSentence(t *testing.T) {
	// The sentence carries both a decision and a belief cue; the earliest
	// match in scan order tags it, so a repeat yields one finding only.
	text := "He decided to go because he believed the road was safe. He decided to go because he believed the road was safe."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Kind != KindRepeatedDecision {
		t.Errorf("expected decision to win the tie, got %q", findings[0].Kind)
	}
}

func TestAnalyze_OutlineAttribution(t *testing.T) {
	text := "He decided to leave. Later, he decided to leave again."
	entries := []outline.Entry{
		{Title: "Chapter One", Level: 0, Start: 0, End: len(text), Page: 1},
	}
	findings := defaultAnalyzer().Analyze(text, entries)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Outline == nil {
		t.Fatal("expected outline context")
	}
	if f.Outline != &entries[0] {
		t.Error("outline context must reference a supplied entry, not a copy")
	}
	if !f.Outline.Contains(f.Start) {
		t.Errorf("outline range [%d, %d) does not contain finding start %d",
			f.Outline.Start, f.Outline.End, f.Start)
	}
}

func TestAnalyze_OutlineMissRemainsNil(t *testing.T) {
	text := "He decided to leave. Later, he decided to leave again."
	// The only entry ends before either sentence's start offset.
	entries := []outline.Entry{
		{Title: "Front Matter", Level: 0, Start: 0, End: 5, Page: 1},
	}
	findings := defaultAnalyzer().Analyze(text, entries)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Outline != nil {
		t.Errorf("expected nil outline context, got %+v", findings[0].Outline)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := "She believed the rope would hold. He decided to cross first. " +
		"She believed the rope would hold. He changed his mind and waited. " +
		"He decided to cross first."
	a := defaultAnalyzer()
	first := a.Analyze(text, nil)
	second := a.Analyze(text, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical findings across runs:\n%+v\n%+v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected findings for looping text")
	}
}

func TestAnalyze_MaxFindingsCap(t *testing.T) {
	var sb strings.Builder
	for range 10 {
		sb.WriteString("He decided to leave. ")
	}
	a := New(DefaultVocabulary(), Limits{MaxFindings: 3, MaxSignatures: 100})
	findings := a.Analyze(sb.String(), nil)
	if len(findings) != 3 {
		t.Fatalf("expected findings capped at 3, got %d", len(findings))
	}
}

func TestAnalyze_MaxSignaturesCap(t *testing.T) {
	// Each sentence carries a distinct decision, so only the first two
	// are tracked; repeats of untracked signatures go unreported but the
	// call still succeeds.
	var sb strings.Builder
	for i := range 20 {
		fmt.Fprintf(&sb, "He decided on plan number%d. ", i)
	}
	for i := range 20 {
		fmt.Fprintf(&sb, "He decided on plan number%d. ", i)
	}
	a := New(DefaultVocabulary(), Limits{MaxFindings: 100, MaxSignatures: 2})
	findings := a.Analyze(sb.String(), nil)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings under signature cap, got %d", len(findings))
	}
}

func TestAnalyze_ExcerptBounded(t *testing.T) {
	long := strings.Repeat("onward ", 100)
	text := "He decided to march " + long + ". He decided to march " + long + "."
	findings := defaultAnalyzer().Analyze(text, nil)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if n := len([]rune(findings[0].Excerpt)); n > maxExcerptRunes {
		t.Errorf("excerpt exceeds bound: %d runes", n)
	}
}
