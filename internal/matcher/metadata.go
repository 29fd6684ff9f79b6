package matcher

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/spf13/afero"

	"photo-archiver/internal/logging"
)

// exifTimestampPattern matches the EXIF DateTime layout "YYYY:MM:DD HH:MM:SS".
var exifTimestampPattern = regexp.MustCompile(`^(\d{4}):(\d{2}):(\d{2}) (\d{2}):(\d{2}):(\d{2})$`)

var errWrongTagType = errors.New("capture timestamp is not a string tag")

type metadataMatcher struct {
	fs     afero.Fs
	logger *slog.Logger
}

// EmbeddedMetadata reads the EXIF DateTimeOriginal tag from the file and names
// the result after it, keeping the original extension in lower case.
// Files that cannot be opened or decoded simply do not match.
func EmbeddedMetadata(fsys afero.Fs, logger *slog.Logger) Matcher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &metadataMatcher{fs: fsys, logger: logger}
}

func (m *metadataMatcher) Name() string { return "embedded-metadata" }

func (m *metadataMatcher) Match(path, name string) (Result, bool) {
	raw, err := m.captureTimestamp(path)
	if err != nil {
		m.logger.Debug("no usable capture timestamp",
			slog.String("file", path),
			logging.Error(err),
		)
		return Result{}, false
	}

	groups := exifTimestampPattern.FindStringSubmatch(raw)
	if groups == nil {
		m.logger.Debug("malformed capture timestamp",
			slog.String("file", path),
			slog.String("value", raw),
		)
		return Result{}, false
	}

	ext := strings.ToLower(filepath.Ext(name))
	res := Result{
		Name:  fmt.Sprintf("%s-%s-%s %s.%s.%s%s", groups[1], groups[2], groups[3], groups[4], groups[5], groups[6], ext),
		Year:  groups[1],
		Month: groups[2],
	}
	m.logger.Debug("embedded metadata match",
		slog.String("file", path),
		slog.String("timestamp", raw),
	)
	return res, true
}

// captureTimestamp returns the raw DateTimeOriginal string. Broken optional
// sub-IFDs (GPS, Interop) do not hide a readable timestamp; decoder panics on
// corrupt input are reported as errors.
func (m *metadataMatcher) captureTimestamp(path string) (value string, err error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			value, err = "", fmt.Errorf("decode exif: %v", r)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			return "", fmt.Errorf("decode exif: %w", err)
		}
		m.logger.Debug("partial exif decode",
			slog.String("file", path),
			logging.Error(err),
		)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", err
	}
	if tag.Format() != tiff.StringVal {
		return "", errWrongTagType
	}

	s, err := tag.StringVal()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00 "), nil
}
