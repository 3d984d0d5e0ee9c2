// Package storage provides file storage for generated report documents.
package storage

import (
	"context"
	"io"
	"time"
)

// Store defines the interface for report file operations
type Store interface {
	// Save persists a file under the given name, overwriting any previous
	// file with that name.
	Save(ctx context.Context, name string, r io.Reader) error

	// Open retrieves a stored file by name. Returns an error satisfying
	// errors.Is(err, fs.ErrNotExist) for unknown names.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// DeleteOlderThan removes files last modified before the cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Config holds storage configuration
type Config struct {
	// LocalPath is the directory reports are written to.
	LocalPath string
}

// New creates a Store implementation based on configuration
func New(cfg *Config) (Store, error) {
	return NewLocalStore(cfg.LocalPath)
}
