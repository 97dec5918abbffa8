// Package storage provides the named key/value slots the task store persists
// its snapshot into.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Backend is a passive key/value sink and source.
type Backend interface {
	// Get returns the slot contents or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the slot contents.
	Set(key string, data []byte) error
	// Close releases the backend.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// SQLiteFile is the database file name used by Open for the sqlite kind.
const SQLiteFile = "taskboard.db"

// Kinds returns every backend kind.
func Kinds() []string {
	return []string{KindFile, KindSQLite, KindMemory}
}

// Open returns the backend of the given kind rooted at dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case KindFile:
		return NewFileBackend(dataDir)
	case KindSQLite:
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return OpenSQLite(filepath.Join(dataDir, SQLiteFile))
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q, must be one of: %s", kind, strings.Join(Kinds(), ", "))
	}
}

// ValidateKey reports whether key can name a slot in every backend.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
