package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrLocked reports that another run already holds the archive lock.
var ErrLocked = errors.New("another run is already archiving into this directory")

// ArchiveLock is an advisory lock keyed by an archive root. The lock file is
// kept in the system temp directory so the archive tree is never touched.
type ArchiveLock struct {
	path string
	lock *flock.Flock
}

// NewArchiveLock prepares a lock for root. root should be absolute.
func NewArchiveLock(root string) *ArchiveLock {
	return NewArchiveLockIn(os.TempDir(), root)
}

// NewArchiveLockIn is NewArchiveLock with an explicit directory for the lock file.
func NewArchiveLockIn(dir, root string) *ArchiveLock {
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.Clean(root)))
	path := filepath.Join(dir, "photo-archiver-"+key.String()+".lock")
	return &ArchiveLock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *ArchiveLock) Path() string { return l.path }

// TryLock acquires the lock without blocking. It returns ErrLocked when
// another process holds it.
func (l *ArchiveLock) TryLock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *ArchiveLock) Unlock() error {
	return l.lock.Unlock()
}
