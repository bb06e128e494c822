package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleEngineStats(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil || s.engine.Stats == nil {
		jsonError(w, "engine stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"open_manuscripts": s.sessions.Len(),
		"stats":            s.engine.Stats.Snapshot(),
	})
}
