// Package writer exposes sinks for finished output files.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives a complete output file in one call.
type Sink interface {
	WriteOutput(b []byte) error
}

// FileWriter writes output to a filesystem path atomically.
type FileWriter struct {
	Path string
	// Perm applies to newly created files. Zero means 0o644.
	Perm os.FileMode
}

// WriteOutput writes b to the configured path via temp file + rename, so
// readers never see a partial file.
func (w *FileWriter) WriteOutput(b []byte) error {
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".apiset-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmpFile.Write(b); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, w.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
