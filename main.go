// Photo Archiver - A tool to file photos and videos by capture date
//
// This tool scans a source directory for photos and videos, works out when
// each one was captured from its file name or embedded EXIF metadata, and
// moves it into a year-month folder (ARCHIVE/YYYY-MM/) under an archive root.
//
// Capture dates are recognized, in order of priority, from:
//   - Cloud-sync names:    2021-07-04 12.30.05.jpg (optionally -N before the extension)
//   - Mobile camera names: IMG_20210704_123005.jpg, VID_20210704_123005.mp4
//   - EXIF DateTimeOriginal embedded in the file
//
// Mobile camera and EXIF matches are renamed to the cloud-sync form. Files
// nothing recognizes are left where they are.
//
// Usage:
//
//	photo-archiver ~/Inbox ~/Photos            # Archive everything recognized
//	photo-archiver -n ~/Inbox ~/Photos         # Preview (dry-run)
//	photo-archiver --on-conflict skip IN OUT   # Never touch existing archive files
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"photo-archiver/internal/archiver"
	"photo-archiver/internal/config"
	"photo-archiver/internal/fsutil"
	"photo-archiver/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// =============================================================================
// Command Line
// =============================================================================

// newRootCommand builds the photo-archiver command. Flags are bound straight
// onto a config.Config that is validated when the command runs.
func newRootCommand() *cobra.Command {
	cfg := config.Default()
	var logFormat string

	cmd := &cobra.Command{
		Use:   "photo-archiver [flags] SOURCE_DIR ARCHIVE_DIR",
		Short: "Move photos and videos into year-month folders by capture date",
		Long: `Move photos and videos from SOURCE_DIR into ARCHIVE_DIR/YYYY-MM/.

Only files directly inside SOURCE_DIR are considered. Every visited file is
printed; files whose capture date cannot be determined stay where they are.`,
		Args:          cobra.ExactArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.SourceDir = args[0]
			cfg.ArchiveDir = args[1]
			cfg.LogFormat = config.LogFormat(logFormat)
			return runArchive(cmd, &cfg)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "Show what would be moved without touching any file")
	flags.StringVar(&cfg.OnConflict, "on-conflict", cfg.OnConflict, "What to do when the destination exists: rename, overwrite, skip or error")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", string(cfg.LogFormat), "Log format: console or json")
	flags.BoolVar(&cfg.ShowSummary, "summary", cfg.ShowSummary, "Print a per-folder summary when the run ends")

	return cmd
}

// =============================================================================
// Archive Run
// =============================================================================

// runArchive validates cfg, takes the archive lock and runs the archiver.
// Visited paths and the summary go to stdout, logs to stderr.
func runArchive(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: string(cfg.LogFormat),
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger = logger.With(slog.String(logging.FieldRunID, uuid.NewString()))

	_, root, err := cfg.AbsPaths()
	if err != nil {
		return err
	}
	lock := fsutil.NewArchiveLock(root)
	if err := lock.TryLock(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release archive lock", slog.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	opts := cfg.ArchiverOptions()
	opts.Logger = logger
	opts.Progress = cmd.OutOrStdout()
	a, err := archiver.New(opts)
	if err != nil {
		return err
	}

	summary, runErr := a.Run(cmd.Context())
	if cfg.ShowSummary {
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary, cfg.DryRun))
	}
	return runErr
}

// =============================================================================
// Main Entry Point
// =============================================================================

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "photo-archiver: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
