package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Scheduling
	QuietPeriod time.Duration
	SessionTTL  time.Duration

	// Analyzer soft limits
	MaxFindings   int
	MaxSignatures int

	// Vocabulary overrides (YAML file, optional)
	VocabPath string

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("QUILLPILOT_API_KEY"),

		QuietPeriod: envDuration("QUIET_PERIOD", 1500*time.Millisecond),
		SessionTTL:  envDuration("SESSION_TTL", 4*time.Hour),

		MaxFindings:   envInt("MAX_FINDINGS", 200),
		MaxSignatures: envInt("MAX_SIGNATURES", 10000),

		VocabPath: os.Getenv("VOCAB_PATH"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.QuietPeriod <= 0 {
		cfg.QuietPeriod = 1500 * time.Millisecond
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 4 * time.Hour
	}
	if cfg.MaxFindings <= 0 {
		cfg.MaxFindings = 200
	}
	if cfg.MaxSignatures <= 0 {
		cfg.MaxSignatures = 10000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("QUILLPILOT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
