package loop

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	if len(v.DecisionCues) == 0 || len(v.BeliefCues) == 0 ||
		len(v.NegationCues) == 0 || len(v.StopWords) == 0 {
		t.Fatalf("default vocabulary has empty sections: %+v", v)
	}
}

func TestLoadVocabulary_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := "decision_cues:\n  - \"elected to\"\n  - \"committed to\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.DecisionCues) != 2 || v.DecisionCues[0] != "elected to" {
		t.Errorf("expected overridden decision cues, got %v", v.DecisionCues)
	}
	// Untouched sections fall back to the defaults.
	def := DefaultVocabulary()
	if len(v.BeliefCues) != len(def.BeliefCues) {
		t.Errorf("expected default belief cues, got %v", v.BeliefCues)
	}
	if len(v.StopWords) != len(def.StopWords) {
		t.Errorf("expected default stop words, got %d entries", len(v.StopWords))
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("decision_cues: {not: a: list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestCustomVocabularyDrivesMatching(t *testing.T) {
	v := DefaultVocabulary()
	v.DecisionCues = []string{"elected to"}
	a := New(v, DefaultLimits())

	text := "He elected to stay behind. He elected to stay behind."
	findings := a.Analyze(text, nil)
	if len(findings) != 1 || findings[0].Kind != KindRepeatedDecision {
		t.Fatalf("expected one repeated decision via custom cue, got %+v", findings)
	}

	// The default cue no longer matches once replaced.
	if got := a.Analyze("He decided to stay. He decided to stay.", nil); len(got) != 0 {
		t.Errorf("expected no findings with replaced cues, got %+v", got)
	}
}
