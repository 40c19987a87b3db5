package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/exonyb/backoffice/internal/application/catalog"
	"go.uber.org/zap"
)

var _ catalog.ObjectStorage = (*LocalObjectStorage)(nil)

// UploadsRoute is the URL prefix the HTTP server serves LocalObjectStorage under
const UploadsRoute = "/uploads"

// LocalObjectStorage keeps objects in a directory on disk. URLs are public
// and never expire; the expiry returned is informative only.
type LocalObjectStorage struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewLocalObjectStorage creates the directory if needed
func NewLocalObjectStorage(dir, publicBaseURL string, logger *zap.Logger) (*LocalObjectStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalObjectStorage{
		root:    abs,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  logger,
	}, nil
}

// Root returns the directory served under UploadsRoute
func (s *LocalObjectStorage) Root() string {
	return s.root
}

// Upload writes the file through a temporary file so readers never see a partial image
func (s *LocalObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	path, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Object stored", zap.String("key", storageKey), zap.Int("bytes", len(data)))
	return nil
}

// GenerateDownloadURL returns the public URL of the object
func (s *LocalObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if _, err := s.path(storageKey); err != nil {
		return "", time.Time{}, err
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	return s.baseURL + UploadsRoute + "/" + filepath.ToSlash(storageKey), time.Now().Add(expiresIn), nil
}

// DeleteObject removes the file; a missing file is not an error
func (s *LocalObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	path, err := s.path(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// path maps a key to a file under root, refusing keys that escape it
func (s *LocalObjectStorage) path(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errEmptyKey
	}
	if !filepath.IsLocal(filepath.FromSlash(storageKey)) {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.root, filepath.FromSlash(storageKey)), nil
}
