package matcher

import (
	"fmt"
	"log/slog"
	"regexp"

	"photo-archiver/internal/logging"
)

// cloudSyncPattern matches "YYYY-MM-DD HH.MM.SS[-N].EXT".
var cloudSyncPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-\d{2} \d{2}\.\d{2}\.\d{2}(?:-\d+)?\.[^.]+$`)

// mobileCapturePattern matches "(IMG|VID)_YYYYMMDD_HHMMSS.EXT".
var mobileCapturePattern = regexp.MustCompile(`^(?:IMG|VID)_(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})\.([^.]+)$`)

// patternMatcher applies a single regular expression to the file name.
type patternMatcher struct {
	name    string
	pattern *regexp.Regexp
	build   func(name string, groups []string) Result
}

func (m *patternMatcher) Name() string { return m.name }

func (m *patternMatcher) Match(_ string, name string) (Result, bool) {
	groups := m.pattern.FindStringSubmatch(name)
	if groups == nil {
		return Result{}, false
	}
	return m.build(name, groups), true
}

// CloudSync recognizes names produced by desktop sync clients' camera upload
// and keeps them unchanged.
func CloudSync() Matcher {
	return &patternMatcher{
		name:    "cloud-sync",
		pattern: cloudSyncPattern,
		build: func(name string, groups []string) Result {
			return Result{Name: name, Year: groups[1], Month: groups[2]}
		},
	}
}

// MobileCapture recognizes phone camera names and rewrites them into the
// cloud-sync form so both conventions sort together.
func MobileCapture(logger *slog.Logger) Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &patternMatcher{
		name:    "mobile-capture",
		pattern: mobileCapturePattern,
		build: func(name string, groups []string) Result {
			year, month, day := groups[1], groups[2], groups[3]
			hour, minute, second := groups[4], groups[5], groups[6]
			ext := groups[7]
			logger.Debug("mobile capture match",
				slog.String("file", name),
				slog.String("year", year),
				slog.String("month", month),
				slog.String("day", day),
				slog.String("time", hour+minute+second),
			)
			return Result{
				Name:  fmt.Sprintf("%s-%s-%s %s.%s.%s.%s", year, month, day, hour, minute, second, ext),
				Year:  year,
				Month: month,
			}
		},
	}
}
