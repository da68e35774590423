// Package atomicfile implements crash-safe file writes and verified copies.
package atomicfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes data to path atomically: it writes to a temporary file in
// the same directory and renames it into place, so a crash mid-write never
// leaves a torn file.
//
// If perm is 0, the existing file's mode is preserved when the file exists,
// falling back to 0644.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode()
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Best-effort; some filesystems do not support chmod here.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// On Windows, renaming over an existing file fails. Remove first (not atomic).
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

// CopyFile copies src to dst and verifies the destination length matches the
// source before reporting success. Used as the non-atomic half of a
// cross-device move: the caller must only delete src after CopyFile returns
// nil.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	written, copyErr := io.Copy(out, in)
	syncErr := out.Sync()
	closeErr := out.Close()

	if copyErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy: %w", copyErr)
	}
	if syncErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("sync destination: %w", syncErr)
	}
	if closeErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination: %w", closeErr)
	}

	if written != st.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy verification failed: wrote %d of %d bytes", written, st.Size())
	}
	if dstInfo, err := os.Stat(dst); err != nil || dstInfo.Size() != st.Size() {
		return fmt.Errorf("copy verification failed for %s", dst)
	}
	return nil
}
