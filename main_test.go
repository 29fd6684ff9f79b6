package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photo-archiver/internal/archiver"
	"photo-archiver/internal/exiftest"
	"photo-archiver/internal/fsutil"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestArchiveCommand(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "inbox")
	root := filepath.Join(base, "archive")
	writeFile(t, filepath.Join(src, "2021-07-04 12.30.05.jpg"), []byte("a"))
	writeFile(t, filepath.Join(src, "IMG_20210704_123006.jpg"), []byte("b"))
	writeFile(t, filepath.Join(src, "scan.jpg"), exiftest.JPEG("2020:01:15 08:09:10"))
	writeFile(t, filepath.Join(src, "readme.txt"), []byte("c"))

	stdout, stderr, err := runCLI(t, src, root)
	if err != nil {
		t.Fatalf("execute: %v\nstderr:\n%s", err, stderr)
	}

	for _, name := range []string{"2021-07-04 12.30.05.jpg", "IMG_20210704_123006.jpg", "scan.jpg", "readme.txt"} {
		if !strings.Contains(stdout, filepath.Join(src, name)+"\n") {
			t.Fatalf("stdout missing visited path %s:\n%s", name, stdout)
		}
	}
	for _, want := range []string{"2020-01", "2021-07", "Moved 3 files", "1 unmatched", "4 visited"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "Moving") || !strings.Contains(stderr, "run_id=") {
		t.Fatalf("stderr missing move logs:\n%s", stderr)
	}

	for _, path := range []string{
		filepath.Join(root, "2021-07", "2021-07-04 12.30.05.jpg"),
		filepath.Join(root, "2021-07", "2021-07-04 12.30.06.jpg"),
		filepath.Join(root, "2020-01", "2020-01-15 08.09.10.jpg"),
		filepath.Join(src, "readme.txt"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
}

func TestArchiveCommandDryRun(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "inbox")
	root := filepath.Join(base, "archive")
	writeFile(t, filepath.Join(src, "2021-07-04 12.30.05.jpg"), []byte("a"))

	stdout, _, err := runCLI(t, "--dry-run", "--summary=false", src, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stdout != filepath.Join(src, "2021-07-04 12.30.05.jpg")+"\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("dry run created the archive root: %v", err)
	}
}

func TestArchiveCommandInPlace(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "2021-07-04 12.30.05.jpg"), []byte("a"))
	writeFile(t, filepath.Join(base, "notes.txt"), []byte("b"))

	stdout, stderr, err := runCLI(t, base, base)
	if err != nil {
		t.Fatalf("execute: %v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Moved 1 file") {
		t.Fatalf("stdout missing tally:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(base, "2021-07", "2021-07-04 12.30.05.jpg")); err != nil {
		t.Fatalf("expected archived file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "2021-07-04 12.30.05.jpg")); !os.IsNotExist(err) {
		t.Fatalf("source file still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "notes.txt")); err != nil {
		t.Fatalf("unmatched file moved: %v", err)
	}
}

func TestArchiveCommandRejectsBadInput(t *testing.T) {
	base := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"one arg", []string{base}, "accepts 2 arg(s)"},
		{"bad policy", []string{"--on-conflict", "merge", base, filepath.Join(base, "a")}, "conflict policy"},
		{"bad log format", []string{"--log-format", "xml", base, filepath.Join(base, "a")}, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestArchiveCommandReturnsRunErrorWithoutLoggingIt(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "inbox")
	root := filepath.Join(base, "archive")
	writeFile(t, filepath.Join(src, "2021-07-04 12.30.05.jpg"), []byte("new"))
	writeFile(t, filepath.Join(root, "2021-07", "2021-07-04 12.30.05.jpg"), []byte("old"))

	_, stderr, err := runCLI(t, "--on-conflict", "error", src, root)
	if !errors.Is(err, archiver.ErrDestinationExists) {
		t.Fatalf("error = %v, want ErrDestinationExists", err)
	}
	// main prints the returned error once; the command must not log it too.
	if strings.Contains(stderr, archiver.ErrDestinationExists.Error()) {
		t.Fatalf("run error reported on stderr by the command:\n%s", stderr)
	}
}

func TestArchiveCommandFailsWhenLocked(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "inbox")
	root := filepath.Join(base, "archive")
	writeFile(t, filepath.Join(src, "2021-07-04 12.30.05.jpg"), []byte("a"))

	lock := fsutil.NewArchiveLock(root)
	if err := lock.TryLock(); err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	defer lock.Unlock()

	if _, _, err := runCLI(t, src, root); err == nil || !strings.Contains(err.Error(), "already archiving") {
		t.Fatalf("error = %v, want lock contention", err)
	}
	if _, err := os.Stat(filepath.Join(src, "2021-07-04 12.30.05.jpg")); err != nil {
		t.Fatalf("source should be untouched: %v", err)
	}
}

func TestArchiveCommandVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stdout, version) {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRenderSummary(t *testing.T) {
	s := archiver.Summary{
		Visited:   5,
		Moved:     3,
		Unmatched: 1,
		Skipped:   1,
		Bytes:     2048,
		Folders:   map[string]int{"2021-07": 2, "2020-01": 1},
	}
	out := renderSummary(s, false)
	if strings.Index(out, "2020-01") > strings.Index(out, "2021-07") {
		t.Fatalf("folders not sorted:\n%s", out)
	}
	if !strings.Contains(out, "Moved 3 files (2.0 kB); 1 unmatched, 1 skipped, 5 visited") {
		t.Fatalf("unexpected tally:\n%s", out)
	}

	empty := renderSummary(archiver.Summary{Visited: 1, Unmatched: 1}, true)
	if empty != "Would move 0 files (0 B); 1 unmatched, 0 skipped, 1 visited\n" {
		t.Fatalf("unexpected empty summary %q", empty)
	}
}
