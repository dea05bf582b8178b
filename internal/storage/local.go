package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps record images on disk under a root directory, for
// development and single-node deployments.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = "./storage/images"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) fullPath(storagePath string) (string, error) {
	cleaned, err := cleanStoragePath(storagePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Upload writes the image to a temporary file and renames it into place, so
// the image route never serves a partial payload.
func (s *LocalStorage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(fileID, filename)
	full, err := s.fullPath(storagePath)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write image %s: %w", storagePath, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write image %s: %w", storagePath, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", storagePath, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("write image %s: %w", storagePath, err)
	}
	return storagePath, nil
}

func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	full, err := s.fullPath(storagePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, storagePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", storagePath, err)
	}
	return f, nil
}

// Delete removes an image; a missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	full, err := s.fullPath(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image %s: %w", storagePath, err)
	}
	return nil
}
