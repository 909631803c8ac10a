package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// FileBackend stores the save record in a single file.
type FileBackend struct {
	path string
}

var _ save.Backend = (*FileBackend)(nil)

// NewFileBackend returns a backend writing to path. "~" expands to the home directory.
func NewFileBackend(path string) (*FileBackend, error) {
	p, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &FileBackend{path: p}, nil
}

// Path returns the full path to the save file.
func (f *FileBackend) Path() string {
	return f.path
}

// Read returns the file contents, or save.ErrNotFound if it does not exist.
func (f *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, save.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}
	return data, nil
}

// Write persists data atomically: write to a temp file in the same
// directory, fsync, then rename over the target.
func (f *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("storage: cannot write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("storage: cannot sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: cannot close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: cannot replace %s: %w", f.path, err)
	}
	return nil
}

// Delete removes the save file. A missing file is not an error.
func (f *FileBackend) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: cannot delete %s: %w", f.path, err)
	}
	return nil
}

// ExpandHome expands a leading "~" to the user's home directory.
func ExpandHome(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
