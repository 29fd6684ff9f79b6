package archiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"photo-archiver/internal/fsutil"
	"photo-archiver/internal/logging"
	"photo-archiver/internal/matcher"
)

// errSkipped signals that a matched file was deliberately left in place.
var errSkipped = errors.New("skipped")

// Options configures an Archiver. Only SourceDir and ArchiveDir are required.
type Options struct {
	SourceDir  string
	ArchiveDir string

	Fs       afero.Fs       // Default: the OS filesystem.
	Matchers matcher.Chain  // Default: matcher.Default.
	Conflict ConflictPolicy // Default: ConflictRename.
	DryRun   bool           // Log planned moves without touching the filesystem.

	Logger   *slog.Logger // Default: no-op.
	Progress io.Writer    // Receives every visited path, one per line. Default: discarded.
}

// Archiver sorts one source directory into one archive root.
type Archiver struct {
	src      string
	root     string
	fs       afero.Fs
	matchers matcher.Chain
	conflict ConflictPolicy
	dryRun   bool
	logger   *slog.Logger
	progress io.Writer

	// claimed holds destinations assigned during this run so dry runs see
	// the same collisions a real run would.
	claimed map[string]struct{}
}

// New validates opts, resolves both directories to absolute paths and fills
// in defaults.
func New(opts Options) (*Archiver, error) {
	if strings.TrimSpace(opts.SourceDir) == "" {
		return nil, errors.New("source directory is required")
	}
	if strings.TrimSpace(opts.ArchiveDir) == "" {
		return nil, errors.New("archive directory is required")
	}
	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source directory: %w", err)
	}
	root, err := filepath.Abs(opts.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("resolve archive directory: %w", err)
	}

	conflict, err := ParseConflictPolicy(string(opts.Conflict))
	if err != nil {
		return nil, err
	}

	a := &Archiver{
		src:      src,
		root:     root,
		fs:       opts.Fs,
		matchers: opts.Matchers,
		conflict: conflict,
		dryRun:   opts.DryRun,
		logger:   logging.NewComponentLogger(opts.Logger, "archiver"),
		progress: opts.Progress,
		claimed:  make(map[string]struct{}),
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.matchers == nil {
		a.matchers = matcher.Default(a.fs, logging.NewComponentLogger(opts.Logger, "matcher"))
	}
	if a.progress == nil {
		a.progress = io.Discard
	}
	return a, nil
}

// SourceDir returns the absolute source directory.
func (a *Archiver) SourceDir() string { return a.src }

// ArchiveDir returns the absolute archive root.
func (a *Archiver) ArchiveDir() string { return a.root }

// Run archives every recognized regular file directly inside the source
// directory. The context is checked between files.
func (a *Archiver) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Folders: make(map[string]int)}

	entries, err := afero.ReadDir(a.fs, a.src)
	if err != nil {
		return summary, fmt.Errorf("%w %s: %w", ErrListSource, a.src, err)
	}

	a.logger.Info("archive run started",
		slog.String("source", a.src),
		slog.String("archive", a.root),
		slog.Int("entries", len(entries)),
		slog.Bool("dry_run", a.dryRun),
	)

	for _, info := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !info.Mode().IsRegular() {
			continue
		}

		path := filepath.Join(a.src, info.Name())
		summary.Visited++
		fmt.Fprintln(a.progress, path)

		res, matcherName, ok := a.matchers.Match(path, info.Name())
		if !ok {
			summary.Unmatched++
			a.logger.Debug("no matcher recognized file", slog.String("file", path))
			continue
		}
		a.logger.Debug("file matched",
			slog.String("file", path),
			slog.String("matcher", matcherName),
			slog.String("dest_name", res.Name),
		)

		dest, err := a.Archive(path, res)
		if errors.Is(err, errSkipped) {
			summary.Skipped++
			continue
		}
		if err != nil {
			return summary, err
		}
		summary.recordMove(res.Folder(), Move{
			Source:  path,
			Dest:    dest,
			Matcher: matcherName,
			Size:    info.Size(),
		})
	}

	a.logger.Info("archive run finished",
		slog.Int("visited", summary.Visited),
		slog.Int("moved", summary.Moved),
		slog.Int("unmatched", summary.Unmatched),
		slog.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// Archive moves path to <archive>/<year>-<month>/<res.Name>, creating the
// folder when needed, and returns the final destination.
func (a *Archiver) Archive(path string, res matcher.Result) (string, error) {
	dir := filepath.Join(a.root, res.Folder())
	dest, err := a.resolveConflict(path, filepath.Join(dir, res.Name))
	if err != nil {
		return "", err
	}

	a.logger.Info("Moving",
		slog.String("src", path),
		slog.String("dest", dest),
		slog.Bool("dry_run", a.dryRun),
	)
	a.claimed[dest] = struct{}{}
	if a.dryRun {
		return dest, nil
	}

	a.logger.Debug("creating target dir", slog.String("dir", dir))
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrCreateDir, dir, err)
	}
	if err := fsutil.Move(a.fs, path, dest); err != nil {
		return "", fmt.Errorf("%w %s => %s: %w", ErrMove, path, dest, err)
	}
	return dest, nil
}

func (a *Archiver) resolveConflict(src, dest string) (string, error) {
	if filepath.Clean(src) == filepath.Clean(dest) {
		a.logger.Debug("file already archived", slog.String("file", src))
		return "", errSkipped
	}

	if !a.taken(dest) {
		return dest, nil
	}

	switch a.conflict {
	case ConflictOverwrite:
		a.logger.Warn("replacing existing file", slog.String("dest", dest))
		return dest, nil
	case ConflictSkip:
		a.logger.Warn("destination exists, leaving source in place",
			slog.String("src", src),
			slog.String("dest", dest),
		)
		return "", errSkipped
	case ConflictError:
		return "", fmt.Errorf("%w %s: %w", ErrMove, src, fmt.Errorf("%w: %s", ErrDestinationExists, dest))
	}

	dir := filepath.Dir(dest)
	stem, n, ext := splitCounter(filepath.Base(dest))
	for {
		n++
		candidate := filepath.Join(dir, stem+"-"+strconv.Itoa(n)+ext)
		if !a.taken(candidate) {
			a.logger.Debug("destination exists, renaming",
				slog.String("dest", dest),
				slog.String("renamed", candidate),
			)
			return candidate, nil
		}
	}
}

// taken reports whether path exists or was assigned earlier in this run.
// Stat failures other than existence are left for MkdirAll and Move to report.
func (a *Archiver) taken(path string) bool {
	if _, ok := a.claimed[path]; ok {
		return true
	}
	_, err := a.fs.Stat(path)
	return err == nil
}

// counterSuffix matches a cloud-sync stem that already carries a same-second
// counter, e.g. "2021-07-04 12.30.05-2".
var counterSuffix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}\.\d{2}\.\d{2})-(\d+)$`)

// splitCounter splits a file name into its stem, existing counter (0 when
// absent) and extension so renames continue the sequence instead of nesting
// suffixes.
func splitCounter(name string) (stem string, n int, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if m := counterSuffix.FindStringSubmatch(stem); m != nil {
		if v, err := strconv.Atoi(m[2]); err == nil {
			return m[1], v, ext
		}
	}
	return stem, 0, ext
}
