package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage stores image payloads attached to service records.
type Storage interface {
	// Upload stores data and returns its storage path.
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)
	// Download retrieves an object by storage path.
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	// Delete removes an object by storage path.
	Delete(ctx context.Context, storagePath string) error
}

var (
	// ErrNotFound is returned by Download when the object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidPath is returned for paths that escape the storage root.
	ErrInvalidPath = errors.New("invalid storage path")
)

// StorageType represents the storage backend type.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage.
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	S3Prefix     string // key prefix inside the bucket
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration.
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateStoragePath generates a unique storage path for a file.
func generateStoragePath(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(baseName)

	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, baseName, ext)
}

// cleanStoragePath rejects paths that would escape the storage root.
func cleanStoragePath(storagePath string) (string, error) {
	cleaned := path.Clean("/" + storagePath)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(storagePath, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, storagePath)
	}
	return cleaned, nil
}

// DataURL is a decoded "data:<mime>;base64,<payload>" value.
type DataURL struct {
	MediaType string
	Data      []byte
}

// IsDataURL reports whether s looks like a data URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL parses a base64 data URL as produced by the mobile client's
// image picker.
func DecodeDataURL(s string) (*DataURL, error) {
	if !IsDataURL(s) {
		return nil, errors.New("not a data URL")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL")
	}
	mediaType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("unsupported data URL encoding %q", encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return &DataURL{MediaType: mediaType, Data: data}, nil
}

// Extension returns the file extension for the payload's media type.
func (d *DataURL) Extension() string {
	switch d.MediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

// getContentType determines content type from filename.
func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// ContentType is the media type served for a stored object.
func ContentType(storagePath string) string {
	return getContentType(storagePath)
}
