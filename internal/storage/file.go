package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileStorage persists entries as files under a base directory. Writes go
// through a temp file and rename so a reader never observes a torn file.
type FileStorage struct {
	baseDir string
}

// Ensure FileStorage implements Interface
var _ Interface = (*FileStorage)(nil)

// NewFileStorage creates a FileStorage rooted at baseDir, creating the
// directory if needed.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}
	return &FileStorage{baseDir: baseDir}, nil
}

// Store writes data durably to the named file
func (s *FileStorage) Store(name string, data []byte) error {
	path := filepath.Join(s.baseDir, name)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	// Flush before rename so the record survives a crash
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	logrus.Debugf("Stored %s (%d bytes)", path, len(data))
	return nil
}

// Retrieve reads the named file, returning ErrNotFound when it is absent
func (s *FileStorage) Retrieve(name string) ([]byte, error) {
	path := filepath.Join(s.baseDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return data, nil
}
