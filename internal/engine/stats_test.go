package engine

import (
	"testing"
	"time"
)

func TestRunStats_Empty(t *testing.T) {
	s := NewRunStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected count 0, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 || snap.AvgMs != 0 {
		t.Errorf("expected zero aggregates, got %+v", snap)
	}
}

func TestRunStats_Aggregates(t *testing.T) {
	s := NewRunStats(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40, 50} {
		s.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count 5, got %d", snap.Count)
	}
	if snap.MinMs != 10 {
		t.Errorf("expected min 10, got %d", snap.MinMs)
	}
	if snap.MaxMs != 50 {
		t.Errorf("expected max 50, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 30 {
		t.Errorf("expected avg 30, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 30 {
		t.Errorf("expected p50 30, got %f", snap.P50Ms)
	}
}

func TestRunStats_NegativeDurationClamped(t *testing.T) {
	s := NewRunStats(time.Hour)
	s.Record(-5 * time.Millisecond)
	snap := s.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Errorf("expected a single zero sample, got %+v", snap)
	}
}

func TestRunStats_WindowPrunes(t *testing.T) {
	s := NewRunStats(50 * time.Millisecond)
	s.Record(10 * time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	s.Record(20 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected old sample pruned, got count %d", snap.Count)
	}
	if snap.MinMs != 20 || snap.MaxMs != 20 {
		t.Errorf("expected only the recent sample, got %+v", snap)
	}
}
