package fsx

import (
	"os"
	"path/filepath"
)

// AtomicWrite writes content to path by writing a tempfile in tmpDir (which
// must live on the same filesystem as path — the project's `.entangled/tmp`
// satisfies this for any target inside the project), fsyncing it, applying
// mode if given, then renaming it onto path. A reader of path never
// observes a partial write (spec.md §4.6, §5).
func AtomicWrite(tmpDir, path string, content []byte, mode *int) error {
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(tmpDir, "entangled-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if mode != nil {
		if err := os.Chmod(tmpPath, os.FileMode(*mode)); err != nil {
			return err
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}

// Delete removes path and then prunes now-empty parent directories upward,
// stopping at root (exclusive) or the first non-empty directory.
func Delete(root, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	dir := filepath.Dir(path)
	for {
		absDir, err := filepath.Abs(dir)
		if err != nil || absDir == absRoot || absDir == filepath.Dir(absDir) {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			return nil
		}
		dir = filepath.Dir(dir)
	}
}
