package matcher

import (
	"log/slog"

	"github.com/spf13/afero"
)

// Result describes where a matched file belongs in the archive.
type Result struct {
	Name  string // Destination file name
	Year  string // Four digits
	Month string // Two digits, zero padded
}

// Folder returns the year-month directory name, e.g. "2021-07".
func (r Result) Folder() string {
	return r.Year + "-" + r.Month
}

// Matcher recognizes a single file. path is the full path of the file and
// name its base name; implementations that only inspect names ignore path.
type Matcher interface {
	Name() string
	Match(path, name string) (Result, bool)
}

// Chain is an ordered list of matchers. Earlier entries take priority.
type Chain []Matcher

// Match returns the result of the first matcher that recognizes the file,
// along with that matcher's name.
func (c Chain) Match(path, name string) (Result, string, bool) {
	for _, m := range c {
		if res, ok := m.Match(path, name); ok {
			return res, m.Name(), true
		}
	}
	return Result{}, "", false
}

// Default returns the standard chain: cloud-sync names, mobile-capture names,
// then embedded EXIF metadata read through fsys.
func Default(fsys afero.Fs, logger *slog.Logger) Chain {
	return Chain{
		CloudSync(),
		MobileCapture(logger),
		EmbeddedMetadata(fsys, logger),
	}
}
