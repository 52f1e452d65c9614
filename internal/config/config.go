package config

import (
	"context"
	"os"
	"strings"
)

type contextKey struct{}

// WithContext returns a new context carrying the given Config.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}

// Config holds all configuration for the on-device SDK.
type Config struct {
	// DBPath is the on-device sqlite database file.
	DBPath string

	// ContentRootDir is where imported content payload trees are materialized.
	ContentRootDir string

	// BundledDir holds the packaged default JSON snapshot per dataset,
	// used only before the first successful live refresh.
	BundledDir string

	// Temporary working directory for export/import snapshots.
	// Empty uses the platform default temp directory.
	TempDir string

	// Background task runner sizing. Refreshes and async pipeline runs
	// share one pool.
	TaskWorkers   int
	TaskQueueSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:         "sunbird.db",
		ContentRootDir: "content",
		BundledDir:     "data",
		TaskWorkers:    2,
		TaskQueueSize:  32,
	}
}

// ResolvedTempDir returns the configured temp directory or the platform default.
func (c *Config) ResolvedTempDir() string {
	if c == nil {
		return os.TempDir()
	}
	if dir := strings.TrimSpace(c.TempDir); dir != "" {
		return dir
	}
	return os.TempDir()
}
