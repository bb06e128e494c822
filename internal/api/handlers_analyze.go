package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/outline"
)

// analyzeRequest is the one-shot analysis payload: a text snapshot plus an
// optional ordered outline.
type analyzeRequest struct {
	Text    string          `json:"text"`
	Outline []outline.Entry `json:"outline,omitempty"`
}

// handleAnalyze runs a synchronous analysis, bypassing the scheduler.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkOutline(req.Outline, len(req.Text)); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := s.engine.AnalyzeText(req.Text, req.Outline)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// checkOutline verifies the ordering invariant and that every range lies
// within the text.
func checkOutline(entries []outline.Entry, textLen int) error {
	if err := outline.Validate(entries); err != nil {
		return fmt.Errorf("invalid outline: %w", err)
	}
	if n := len(entries); n > 0 && entries[n-1].End > textLen {
		return fmt.Errorf("invalid outline: entry %q ends past the text (%d > %d)",
			entries[n-1].Title, entries[n-1].End, textLen)
	}
	return nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
