package api

import (
	"context"
	"sync"
	"time"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/engine"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/scheduler"
)

// Session is one open manuscript: the current text and outline snapshot,
// the scheduler that re-analyzes it, and the latest accepted result.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	title     string
	text      string
	outline   []outline.Entry
	latest    *engine.Result
	updatedAt time.Time

	sched *scheduler.Scheduler
}

func newSession(id, title, text string, entries []outline.Entry) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		title:     title,
		text:      text,
		outline:   entries,
		updatedAt: now,
	}
}

// SetDocument replaces the text and outline. The outline slice is stored
// as-is and never mutated, so an in-flight analysis keeps the snapshot it
// was handed.
func (s *Session) SetDocument(text string, entries []outline.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.outline = entries
	s.updatedAt = time.Now()
}

// Snapshot returns the current text and outline for the scheduler.
func (s *Session) Snapshot() (string, []outline.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.outline
}

// Title returns the manuscript title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// storeResult is the scheduler's delivery callback.
func (s *Session) storeResult(r engine.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &r
	s.updatedAt = time.Now()
}

// Latest returns the most recent accepted result, or false while the
// first analysis is still pending.
func (s *Session) Latest() (engine.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return engine.Result{}, false
	}
	return *s.latest, true
}

func (s *Session) close() {
	if s.sched != nil {
		s.sched.Close()
	}
}

// SessionStore is a thread-safe in-memory session registry with TTL
// eviction. Evicting a session closes its scheduler.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Start launches the periodic cleanup goroutine.
func (s *SessionStore) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Stop halts cleanup and closes every open session.
func (s *SessionStore) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.close()
		delete(s.sessions, id)
	}
}

func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Delete removes a session and closes its scheduler. It reports whether
// the session existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if sess == nil {
		return false
	}
	sess.close()
	return true
}

// Cleanup evicts sessions idle longer than the TTL.
func (s *SessionStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.updatedAt)
		sess.mu.Unlock()
		if idle > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
