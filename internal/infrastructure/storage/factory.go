package storage

import (
	"context"
	"fmt"

	"github.com/exonyb/backoffice/internal/application/catalog"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the backend selected by storage.type. The S3 bucket is
// created when missing.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (catalog.ObjectStorage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalObjectStorage(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case "s3":
		s3Storage, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
