package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/config"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/engine"
)

// Server is the HTTP surface of the analysis service.
type Server struct {
	router   chi.Router
	engine   *engine.Engine
	sessions *SessionStore
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(eng *engine.Engine, sessions *SessionStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine:   eng,
		sessions: sessions,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/analyze", s.handleAnalyze)
		r.Post("/api/import", s.handleImport)

		r.Post("/api/manuscripts", s.handleOpenManuscript)
		r.Put("/api/manuscripts/{manuscriptID}/text", s.handleUpdateText)
		r.Post("/api/manuscripts/{manuscriptID}/analyze", s.handleAnalyzeNow)
		r.Get("/api/manuscripts/{manuscriptID}/result", s.handleResult)
		r.Delete("/api/manuscripts/{manuscriptID}", s.handleCloseManuscript)

		r.Get("/api/stats/engine", s.handleEngineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
