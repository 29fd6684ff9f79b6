// Package fsutil holds the filesystem primitives behind an archive run:
// moving files across devices and serializing runs on the same archive root.
package fsutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Move renames src to dst. When the two paths live on different devices the
// file is copied, verified and the source removed. An existing dst is replaced.
func Move(fsys afero.Fs, src, dst string) error {
	err := fsys.Rename(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}

	if err := CopyFileVerified(fsys, src, dst); err != nil {
		return fmt.Errorf("copy across devices: %w", err)
	}
	if err := fsys.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// CopyFileVerified streams src to dst with SHA256 + size verification and
// carries over the source's permissions and modification time. dst is removed
// whenever the copy fails.
func CopyFileVerified(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if err := copyVerified(out, in, info.Size()); err != nil {
		_ = out.Close()
		_ = fsys.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(dst)
		return err
	}

	// dst must be closed here: some backends stamp the mtime on Close.
	return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copyVerified(out io.Writer, in io.Reader, size int64) error {
	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if written != size {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", size, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
