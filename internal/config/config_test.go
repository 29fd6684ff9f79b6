package config

import (
	"path/filepath"
	"strings"
	"testing"

	"photo-archiver/internal/archiver"
)

func TestDefaultConfigValidatesWithPaths(t *testing.T) {
	cfg := Default()
	cfg.SourceDir = "inbox"
	cfg.ArchiveDir = "archive"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !cfg.ShowSummary || cfg.LogFormat != LogConsole || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateAcceptsArchiveInSource(t *testing.T) {
	cfg := Default()
	cfg.SourceDir = "inbox"
	cfg.ArchiveDir = filepath.Join("inbox", ".")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	src, root, err := cfg.AbsPaths()
	if err != nil || src != root {
		t.Fatalf("AbsPaths = %q, %q, %v", src, root, err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing source", func(c *Config) { c.SourceDir = " " }, "source directory is required"},
		{"missing archive", func(c *Config) { c.ArchiveDir = "" }, "archive directory is required"},
		{"bad policy", func(c *Config) { c.OnConflict = "merge" }, "conflict policy"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SourceDir = "inbox"
			cfg.ArchiveDir = "archive"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestArchiverOptions(t *testing.T) {
	cfg := Default()
	cfg.SourceDir = "/in"
	cfg.ArchiveDir = "/out"
	cfg.DryRun = true
	cfg.OnConflict = "Skip"

	opts := cfg.ArchiverOptions()
	if opts.SourceDir != "/in" || opts.ArchiveDir != "/out" || !opts.DryRun || opts.Conflict != archiver.ConflictSkip {
		t.Fatalf("unexpected options %+v", opts)
	}
}
