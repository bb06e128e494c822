package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/api"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/config"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/engine"
	"github.com/londailey6937/QuillPilot-Native-sub003/internal/loop"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vocab := loop.DefaultVocabulary()
	if cfg.VocabPath != "" {
		v, err := loop.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			log.Error("failed to load vocabulary, using defaults", "path", cfg.VocabPath, "error", err)
		} else {
			vocab = v
		}
	}

	eng := engine.New(vocab, loop.Limits{
		MaxFindings:   cfg.MaxFindings,
		MaxSignatures: cfg.MaxSignatures,
	})

	sessions := api.NewSessionStore(cfg.SessionTTL)
	sessions.Start(ctx)

	srv := api.NewServer(eng, sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting quillpilot analysis service", "port", cfg.Port, "quiet_period", cfg.QuietPeriod)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
