package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps recordings on the local filesystem under a base directory
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a LocalStore rooted at baseDir
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes the recording to <baseDir>/<userID>/<uuid>_<filename>
func (s *LocalStore) Save(_ context.Context, userID string, filename string, reader io.Reader, _ int64, _ string) (string, error) {
	dir := filepath.Join(s.baseDir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}

	// Base() strips any path components a hostile client sneaks into the name
	name := uuid.New().String() + "_" + filepath.Base(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// Delete removes a stored recording
func (s *LocalStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
