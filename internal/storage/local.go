package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage by copying artifacts into an archive
// directory on local disk.
type LocalStorage struct {
	archiveDir string
}

// NewLocalStorage creates a LocalStorage rooted at archiveDir. If archiveDir
// is empty, a directory under os.TempDir() is used. The directory is created
// if it doesn't exist.
func NewLocalStorage(archiveDir string) (*LocalStorage, error) {
	if archiveDir == "" {
		archiveDir = filepath.Join(os.TempDir(), "audiokit")
	}

	if err := os.MkdirAll(archiveDir, 0750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &LocalStorage{archiveDir: archiveDir}, nil
}

// ArchiveDir returns the archive directory path.
func (s *LocalStorage) ArchiveDir() string {
	return s.archiveDir
}

// Upload copies data into the archive directory under key and returns the
// absolute destination path.
func (s *LocalStorage) Upload(ctx context.Context, key string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst := filepath.Join(s.archiveDir, filepath.Base(key))
	f, err := os.Create(dst) // #nosec G304 - dst is confined to the archive directory
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close archive file: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return dst, nil
	}
	return abs, nil
}

// Compile-time interface check.
var _ Storage = (*LocalStorage)(nil)
