package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements Store using the local filesystem
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new local filesystem store
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Save persists a file under the given name
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path) // cleanup on error
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Open retrieves a stored file by name
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// DeleteOlderThan removes files last modified before the cutoff
func (s *LocalStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read storage directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// resolve maps a name to a path inside the base directory, rejecting
// separators and traversal so handler input can be passed through directly.
func (s *LocalStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) ||
		strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", fs.ErrNotExist
	}
	return filepath.Join(s.basePath, name), nil
}
