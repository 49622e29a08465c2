package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key
	// is absent; that is not an error.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Keys returns all keys in sorted order.
	Keys() ([]string, error)
	// Close releases the store.
	Close() error
}

// Open opens a store for the named backend. path is ignored by the
// memory backend.
func Open(backend, path string) (Store, error) {
	switch NormalizeBackend(backend) {
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite or memory)", backend)
	}
}

// NormalizeBackend lowercases a backend name and resolves aliases.
func NormalizeBackend(backend string) string {
	switch b := strings.ToLower(strings.TrimSpace(backend)); b {
	case "", "json":
		return BackendFile
	case "sqlite3", "db":
		return BackendSQLite
	case "mem":
		return BackendMemory
	default:
		return b
	}
}
