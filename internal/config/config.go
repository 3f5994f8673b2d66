package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment      string
	HTTPPort         string
	DatabasePath     string
	LogDir           string
	JWTSecret        string
	SnapshotSchedule string
}

// Load reads an optional .env file, then env vars, and falls back to defaults
// so the server can boot with zero configuration.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:      getEnv("ARGUS_ENV", "development"),
		HTTPPort:         getEnv("ARGUS_HTTP_PORT", "8080"),
		DatabasePath:     getEnv("ARGUS_DB_PATH", filepath.Join("data", "argus.db")),
		LogDir:           getEnv("ARGUS_LOG_DIR", filepath.Join("data", "logs")),
		JWTSecret:        getEnv("ARGUS_JWT_SECRET", "dev-secret-change-me"),
		SnapshotSchedule: getEnv("ARGUS_SNAPSHOT_SCHEDULE", "0 2 * * *"),
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "dev-secret-change-me" {
		return Config{}, fmt.Errorf("ARGUS_JWT_SECRET must be set in production")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
