// Package scheduler decides when a manuscript gets re-analyzed. Each open
// manuscript owns one Scheduler: edits arrive as NotifyChanged calls, a
// debounce timer waits for typing to quiesce, and the analysis runs on a
// background goroutine against an immutable snapshot. A generation counter
// identifies the most recently scheduled run; completed runs whose
// generation is no longer current are discarded without delivery.
package scheduler

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/engine"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

// DefaultQuietPeriod is the debounce delay between the last edit and the
// start of an analysis run.
const DefaultQuietPeriod = 1500 * time.Millisecond

// SnapshotFunc supplies the current text and outline at the moment the
// debounce fires. The returned values must be immutable snapshots; the
// scheduler hands them to a background goroutine.
type SnapshotFunc func() (string, []outline.Entry)

// Delivery pairs a completed result with the generation that produced it.
type Delivery struct {
	Generation uint64
	Result     engine.Result
}

// Scheduler owns debouncing, single-flight execution, stale-result
// discard, and serialized delivery for one manuscript. All methods are
// safe for concurrent use.
type Scheduler struct {
	engine   *engine.Engine
	snapshot SnapshotFunc
	quiet    time.Duration
	log      *slog.Logger

	// generation is bumped when a run is scheduled and when pending work
	// is cancelled; a completed run only delivers if its generation still
	// matches.
	generation atomic.Uint64

	mu       sync.Mutex
	timer    *time.Timer
	running  bool
	dirty    bool // an edit arrived while a run was in flight
	closed   bool
	callback func(engine.Result)

	deliveries chan Delivery
	done       chan struct{}
	wg         sync.WaitGroup
}

// New builds and starts a Scheduler. quiet <= 0 selects
// DefaultQuietPeriod. The delivery goroutine runs until Close.
func New(eng *engine.Engine, snapshot SnapshotFunc, quiet time.Duration, log *slog.Logger) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		engine:     eng,
		snapshot:   snapshot,
		quiet:      quiet,
		log:        log,
		deliveries: make(chan Delivery, 4),
		done:       make(chan struct{}),
	}
	s.wg.Add(1)
	go s.deliverLoop()
	return s
}

// OnResult registers the callback invoked for each accepted result.
// Invocations are serialized: the delivery goroutine calls the callback
// one result at a time, in increasing generation order.
func (s *Scheduler) OnResult(fn func(engine.Result)) {
	s.mu.Lock()
	s.callback = fn
	s.mu.Unlock()
}

// NotifyChanged records an edit. It resets the debounce timer, or if a run
// is in flight, remembers the change so another cycle is scheduled once
// that run completes. The in-flight run is never interrupted; its result
// is superseded by the later cycle.
func (s *Scheduler) NotifyChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.running {
		s.dirty = true
		return
	}
	s.resetTimerLocked()
}

// RequestImmediate bypasses the debounce wait and schedules a run now.
// The result is still subject to the generation discard check.
func (s *Scheduler) RequestImmediate() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.running {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.fire()
}

// CancelPending skips the next debounce-triggered run. A run already in
// flight finishes, but bumping the generation makes its result stale so
// it is discarded on completion rather than interrupted.
func (s *Scheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.dirty = false
	if s.running {
		s.generation.Add(1)
	}
}

// Generation returns the latest issued generation.
func (s *Scheduler) Generation() uint64 {
	return s.generation.Load()
}

// Close stops the timer and the delivery goroutine, then waits for any
// in-flight run to finish. No callback fires after Close returns.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

// resetTimerLocked arms (or re-arms) the debounce timer.
func (s *Scheduler) resetTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

// fire snapshots the manuscript, issues a new generation, and starts the
// background run. Called from the debounce timer or RequestImmediate.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.running {
		// An immediate request raced the timer; fold into the next cycle.
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.running = true
	s.timer = nil
	gen := s.generation.Add(1)
	text, entries := s.snapshot()
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(gen, text, entries)
}

func (s *Scheduler) run(gen uint64, text string, entries []outline.Entry) {
	defer s.wg.Done()

	result := s.engine.AnalyzeText(text, entries)

	s.mu.Lock()
	s.running = false
	rearm := s.dirty && !s.closed
	s.dirty = false
	if rearm {
		s.resetTimerLocked()
	}
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return
	}
	if latest := s.generation.Load(); gen != latest {
		s.log.Debug("discarding stale analysis result", "generation", gen, "latest", latest)
		return
	}
	select {
	case s.deliveries <- Delivery{Generation: gen, Result: result}:
	case <-s.done:
	}
}

// deliverLoop drains completed runs and invokes the registered callback.
// The generation is re-checked at delivery time so a result that went
// stale while queued is still dropped.
func (s *Scheduler) deliverLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case d := <-s.deliveries:
			if latest := s.generation.Load(); d.Generation != latest {
				s.log.Debug("discarding stale queued result", "generation", d.Generation, "latest", latest)
				continue
			}
			s.mu.Lock()
			cb := s.callback
			s.mu.Unlock()
			if cb != nil {
				cb(d.Result)
			}
		}
	}
}
