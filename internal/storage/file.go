package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each slot as <Dir>/<key>.json.
type FileBackend struct {
	Dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{Dir: dir}, nil
}

// Path returns the file backing key.
func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

// Get reads the slot file.
func (f *FileBackend) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, nil
}

// Set writes the slot through a temp file and rename so readers never see a
// partial snapshot.
func (f *FileBackend) Set(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, f.Path(key)); err != nil {
		return fmt.Errorf("replace slot %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (f *FileBackend) Close() error {
	return nil
}
