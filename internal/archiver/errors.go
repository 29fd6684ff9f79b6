package archiver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCreateDir marks a failure to create a year-month folder.
	ErrCreateDir = errors.New("create destination directory")
	// ErrMove marks a failed move into the archive.
	ErrMove = errors.New("move file")
	// ErrDestinationExists is returned under ConflictError when the target name is taken.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrListSource marks a failure to read the source directory.
	ErrListSource = errors.New("list source directory")
)

// ConflictPolicy decides what happens when the destination file already exists.
type ConflictPolicy string

const (
	ConflictRename    ConflictPolicy = "rename"    // Append -1, -2, ... before the extension (default).
	ConflictOverwrite ConflictPolicy = "overwrite" // Replace the existing file.
	ConflictSkip      ConflictPolicy = "skip"      // Leave the source in place.
	ConflictError     ConflictPolicy = "error"     // Abort the run.
)

// ConflictPolicies lists the accepted policy names.
var ConflictPolicies = []ConflictPolicy{ConflictRename, ConflictOverwrite, ConflictSkip, ConflictError}

// ParseConflictPolicy validates a policy name. Empty selects ConflictRename.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ConflictRename, nil
	}
	for _, p := range ConflictPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid conflict policy %q (want rename, overwrite, skip or error)", s)
}
