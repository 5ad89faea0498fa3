package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	billingapp "github.com/spicedepot/backend/internal/application/billing"
)

var _ billingapp.ObjectStorage = (*LocalReceiptStorage)(nil)

// LocalReceiptStorage stores receipt files on local disk. Used in development
// and single-machine deployments where no S3 bucket is configured.
type LocalReceiptStorage struct {
	baseDir string
}

// NewLocalReceiptStorage creates local storage rooted at baseDir
func NewLocalReceiptStorage(baseDir string) (*LocalReceiptStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalReceiptStorage{baseDir: baseDir}, nil
}

// PutObject writes a receipt file under the given key
func (s *LocalReceiptStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// GenerateDownloadURL returns a file path URL; local storage has no real
// presigning, the expiry is nominal
func (s *LocalReceiptStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", time.Time{}, fmt.Errorf("receipt not found: %w", err)
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return "file://" + path, time.Now().Add(expiresIn), nil
}

// DeleteObject removes a stored receipt
func (s *LocalReceiptStorage) DeleteObject(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a storage key to a path inside baseDir, rejecting traversal
func (s *LocalReceiptStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", errors.New("invalid storage key")
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
