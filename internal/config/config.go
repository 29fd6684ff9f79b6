// Package config holds the runtime settings of an archive run and validates
// them. Settings come from command-line flags only.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"photo-archiver/internal/archiver"
)

// LogFormat selects the log encoding.
type LogFormat string

const (
	LogConsole LogFormat = "console" // key=value lines (default).
	LogJSON    LogFormat = "json"    // One JSON object per record.
)

// Config holds all runtime settings. Start from [Default] and override from flags.
type Config struct {
	// Paths (set from positional args).
	SourceDir  string
	ArchiveDir string

	// Behavior.
	DryRun     bool
	OnConflict string // rename, overwrite, skip or error. Default: rename.

	// Output.
	LogLevel    string    // Default: "info".
	LogFormat   LogFormat // Default: console.
	ShowSummary bool      // Default: true.
}

// Default returns a Config with every optional setting at its default.
func Default() Config {
	return Config{
		OnConflict:  string(archiver.ConflictRename),
		LogLevel:    "info",
		LogFormat:   LogConsole,
		ShowSummary: true,
	}
}

// Validate checks required paths and enumerated values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceDir) == "" {
		return errors.New("source directory is required")
	}
	if strings.TrimSpace(c.ArchiveDir) == "" {
		return errors.New("archive directory is required")
	}

	if _, err := archiver.ParseConflictPolicy(c.OnConflict); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", c.LogLevel)
	}

	switch LogFormat(strings.ToLower(string(c.LogFormat))) {
	case "", LogConsole, LogJSON:
	default:
		return fmt.Errorf("invalid log format %q (want console or json)", c.LogFormat)
	}

	// The archive may live inside the source, or be the source itself.
	_, _, err := c.AbsPaths()
	return err
}

// AbsPaths resolves the source and archive directories to absolute paths.
func (c *Config) AbsPaths() (src, root string, err error) {
	if src, err = filepath.Abs(c.SourceDir); err != nil {
		return "", "", fmt.Errorf("resolve source directory: %w", err)
	}
	if root, err = filepath.Abs(c.ArchiveDir); err != nil {
		return "", "", fmt.Errorf("resolve archive directory: %w", err)
	}
	return src, root, nil
}

// ArchiverOptions maps the config onto archiver options. Call Validate first.
func (c *Config) ArchiverOptions() archiver.Options {
	policy, _ := archiver.ParseConflictPolicy(c.OnConflict)
	return archiver.Options{
		SourceDir:  c.SourceDir,
		ArchiveDir: c.ArchiveDir,
		Conflict:   policy,
		DryRun:     c.DryRun,
	}
}
