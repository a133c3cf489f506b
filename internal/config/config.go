// Package config loads and validates application configuration. Values come
// from an optional YAML file plus environment variables; the environment
// always wins so deployments can override a checked-in config file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot backend names accepted in SNAPSHOT_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SnapshotBackend selects where itinerary snapshots are persisted:
	// "file" (default) or "postgres".
	SnapshotBackend string

	// SnapshotFile is the JSON snapshot path used by the file backend.
	// Defaults to "data/itinerary.json".
	SnapshotFile string

	// DatabaseURL is the Postgres connection string. Required only when
	// SnapshotBackend is "postgres".
	DatabaseURL string

	// GeocoderBaseURL is the base URL of the Nominatim-compatible geocoding
	// service used for place search and reverse geocoding.
	GeocoderBaseURL string

	// BackupSchedule is an optional cron expression; when set (and the file
	// backend is active) a timestamped snapshot backup is written on that
	// schedule. Empty disables scheduled backups.
	BackupSchedule string
}

// fileConfig mirrors Config for the optional YAML overlay file.
type fileConfig struct {
	Port            string   `yaml:"port"`
	LogLevel        string   `yaml:"log_level"`
	CORSOrigins     []string `yaml:"cors_origins"`
	SnapshotBackend string   `yaml:"snapshot_backend"`
	SnapshotFile    string   `yaml:"snapshot_file"`
	DatabaseURL     string   `yaml:"database_url"`
	GeocoderBaseURL string   `yaml:"geocoder_base_url"`
	BackupSchedule  string   `yaml:"backup_schedule"`
}

// Load builds the Config in three layers: defaults, then the YAML file named
// by CONFIG_FILE (if set), then environment variables. Returns an error for
// an unreadable config file, an unknown snapshot backend, or a missing
// DATABASE_URL when the postgres backend is selected.
func Load() (Config, error) {
	cfg := Config{
		Port:            "8080",
		LogLevel:        "info",
		CORSOrigins:     []string{"http://localhost:5173"},
		SnapshotBackend: BackendFile,
		SnapshotFile:    "data/itinerary.json",
		GeocoderBaseURL: "https://nominatim.openstreetmap.org",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	switch cfg.SnapshotBackend {
	case BackendFile, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("config: unknown snapshot backend %q (want %q or %q)",
			cfg.SnapshotBackend, BackendFile, BackendPostgres)
	}
	if cfg.SnapshotBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required when SNAPSHOT_BACKEND=%s", BackendPostgres)
	}

	return cfg, nil
}

// applyFile overlays non-empty values from the YAML file at path onto cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setIfNotEmpty(&cfg.Port, fc.Port)
	setIfNotEmpty(&cfg.LogLevel, fc.LogLevel)
	setIfNotEmpty(&cfg.SnapshotBackend, fc.SnapshotBackend)
	setIfNotEmpty(&cfg.SnapshotFile, fc.SnapshotFile)
	setIfNotEmpty(&cfg.DatabaseURL, fc.DatabaseURL)
	setIfNotEmpty(&cfg.GeocoderBaseURL, fc.GeocoderBaseURL)
	setIfNotEmpty(&cfg.BackupSchedule, fc.BackupSchedule)
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	return nil
}

// applyEnv overlays non-empty environment variables onto cfg.
func applyEnv(cfg *Config) {
	setIfNotEmpty(&cfg.Port, os.Getenv("PORT"))
	setIfNotEmpty(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setIfNotEmpty(&cfg.SnapshotBackend, os.Getenv("SNAPSHOT_BACKEND"))
	setIfNotEmpty(&cfg.SnapshotFile, os.Getenv("SNAPSHOT_FILE"))
	setIfNotEmpty(&cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	setIfNotEmpty(&cfg.GeocoderBaseURL, os.Getenv("GEOCODER_BASE_URL"))
	setIfNotEmpty(&cfg.BackupSchedule, os.Getenv("BACKUP_SCHEDULE"))
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
