package engine

import (
	"time"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/loop"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/metrics"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

// Result is the outcome of one analysis pass over a manuscript snapshot.
// It is built once per call and never mutated afterward; Findings is
// always non-nil so an empty result serializes as "no issues found"
// rather than null.
type Result struct {
	WordCount     int            `json:"word_count"`
	SentenceCount int            `json:"sentence_count"`
	CharCount     int            `json:"char_count"`
	ReadingGrade  int            `json:"reading_grade"`
	Findings      []loop.Finding `json:"findings"`
}

// Engine composes the text metrics calculator and the decision-belief
// loop analyzer. It holds no per-call state: independent callers may
// invoke AnalyzeText concurrently without synchronization.
type Engine struct {
	analyzer *loop.Analyzer

	// Stats tracks recent analysis latencies for the stats endpoint.
	Stats *RunStats
}

// New builds an Engine with the given vocabulary and soft limits.
func New(v loop.Vocabulary, lim loop.Limits) *Engine {
	return &Engine{
		analyzer: loop.New(v, lim),
		Stats:    NewRunStats(time.Hour),
	}
}

// AnalyzeText analyzes one immutable text snapshot, with optional outline
// entries for attribution. It is synchronous and pure: any input string,
// including empty or non-linguistic text, produces a best-effort Result
// and never an error. The entries slice is read, never retained.
func (e *Engine) AnalyzeText(text string, entries []outline.Entry) Result {
	start := time.Now()

	c := metrics.Calculate(text)
	findings := e.analyzer.Analyze(text, entries)
	if findings == nil {
		findings = []loop.Finding{}
	}

	e.Stats.Record(time.Since(start))
	return Result{
		WordCount:     c.WordCount,
		SentenceCount: c.SentenceCount,
		CharCount:     c.CharCount,
		ReadingGrade:  c.ReadingGrade,
		Findings:      findings,
	}
}
