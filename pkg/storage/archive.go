package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportArchive keeps a copy of every generated placement report on disk so
// staff can re-download a report after the response that produced it is gone.
type ExportArchive struct {
	baseDir string
}

// NewExportArchive ensures the archive directory exists and returns a handle.
func NewExportArchive(baseDir string) (*ExportArchive, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &ExportArchive{baseDir: baseDir}, nil
}

// Save writes a rendered report under the archive directory. The filename is
// treated as relative to the base; absolute paths are rejected.
func (a *ExportArchive) Save(filename string, data []byte) error {
	path, err := a.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archived report: %w", err)
	}
	return nil
}

// Open returns a read-only handle for an archived report.
func (a *ExportArchive) Open(filename string) (*os.File, error) {
	path, err := a.resolve(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archived report: %w", err)
	}
	return file, nil
}

// CleanupOlderThan removes archived reports past their retention window and
// returns the names it deleted.
func (a *ExportArchive) CleanupOlderThan(retention time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-retention)
	deleted := make([]string, 0)
	err := filepath.WalkDir(a.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(a.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup archive: %w", err)
	}
	return deleted, nil
}

func (a *ExportArchive) resolve(filename string) (string, error) {
	if filepath.IsAbs(filename) || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid archive filename %q", filename)
	}
	return filepath.Join(a.baseDir, filename), nil
}
