package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/scheduler"
)

type openManuscriptRequest struct {
	Title   string          `json:"title"`
	Text    string          `json:"text"`
	Outline []outline.Entry `json:"outline,omitempty"`
}

type updateTextRequest struct {
	Text    string          `json:"text"`
	Outline []outline.Entry `json:"outline,omitempty"`
}

// handleOpenManuscript opens an editing session: the text is analyzed
// immediately and re-analyzed after each update once typing quiesces.
func (s *Server) handleOpenManuscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req openManuscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkOutline(req.Outline, len(req.Text)); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.openSession(req.Title, req.Text, req.Outline)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"manuscript_id": sess.ID,
		"title":         sess.Title(),
		"result_url":    fmt.Sprintf("/api/manuscripts/%s/result", sess.ID),
	})
}

// openSession builds a session with its own scheduler and kicks off the
// first analysis.
func (s *Server) openSession(title, text string, entries []outline.Entry) *Session {
	id := uuid.NewString()
	sess := newSession(id, title, text, entries)
	sess.sched = scheduler.New(s.engine, sess.Snapshot, s.cfg.QuietPeriod,
		s.log.With("manuscript_id", id))
	sess.sched.OnResult(sess.storeResult)
	s.sessions.Put(sess)
	sess.sched.RequestImmediate()
	return sess
}

// handleUpdateText replaces the session's text (and outline, if supplied)
// and notifies the scheduler. Analysis starts after the quiet period.
func (s *Server) handleUpdateText(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req updateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkOutline(req.Outline, len(req.Text)); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.SetDocument(req.Text, req.Outline)
	sess.sched.NotifyChanged()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "scheduled"})
}

// handleAnalyzeNow bypasses the debounce wait for the session.
func (s *Server) handleAnalyzeNow(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.sched.RequestImmediate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "scheduled"})
}

// handleResult returns the latest accepted result. A 202 means analysis
// is still pending; an empty findings list in a 200 means the manuscript
// analyzed clean.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	result, ok := sess.Latest()
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleCloseManuscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "manuscriptID")
	if !s.sessions.Delete(id) {
		jsonError(w, "manuscript not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	id := chi.URLParam(r, "manuscriptID")
	sess := s.sessions.Get(id)
	if sess == nil {
		jsonError(w, "manuscript not found", http.StatusNotFound)
		return nil
	}
	return sess
}
