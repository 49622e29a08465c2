// Package appdir provides constants and utilities for the .taskpad directory structure.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the taskpad state directory.
	Dir = ".taskpad"

	// DefaultStoreFile is the default JSON key-value store file (inside .taskpad).
	DefaultStoreFile = "storage.json"

	// DefaultSQLiteFile is the default SQLite key-value store file (inside .taskpad).
	DefaultSQLiteFile = "storage.db"

	// DefaultConfigFile is the default config file name (inside .taskpad).
	DefaultConfigFile = "taskpad.toml"

	// LogsDir is the log directory name (inside .taskpad).
	LogsDir = "logs"
)

// Home returns the user-level .taskpad directory.
// Falls back to a relative .taskpad when the home directory is unknown.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// StorePath returns the default store file for a backend within base.
func StorePath(base, backend string) string {
	if backend == "sqlite" {
		return joinPath(base, DefaultSQLiteFile)
	}
	return joinPath(base, DefaultStoreFile)
}

// ConfigPath returns the config file path within base.
func ConfigPath(base string) string {
	return joinPath(base, DefaultConfigFile)
}

// LogPath returns the log directory within base.
func LogPath(base string) string {
	return joinPath(base, LogsDir)
}

func joinPath(base, name string) string {
	if base == "" {
		return filepath.Join(Dir, name)
	}
	return filepath.Join(base, name)
}
