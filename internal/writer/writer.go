// Package writer persists annotated files.
//
// Writes are atomic: content goes to a temporary file in the target's
// directory which is synced and renamed over the target, so readers never
// observe a partially-written source file. The original file mode is kept.
// In dry-run mode nothing touches the disk.
package writer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Writer stores file contents unless DryRun is set.
type Writer struct {
	DryRun bool
}

// Store writes content to path and reports whether a write happened.
func (w Writer) Store(path string, content []byte) (bool, error) {
	if w.DryRun {
		return false, nil
	}
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := writeAtomic(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

func writeAtomic(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, f, err := createTempFile(dir, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp) // best-effort cleanup
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// createTempFile creates ".tmp-<base>-<rand>" in dir, keeping the temporary
// file next to its target so the final rename stays on one filesystem.
func createTempFile(dir, base string) (string, *os.File, error) {
	f, err := os.CreateTemp(dir, ".tmp-"+base+"-")
	if err != nil {
		return "", nil, err
	}
	return f.Name(), f, nil
}
