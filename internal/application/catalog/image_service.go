package catalog

import (
	"context"
	"fmt"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/audit"
	"github.com/exonyb/backoffice/internal/domain/catalog"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage stores product images. Implemented by the S3 and local
// filesystem backends.
type ObjectStorage interface {
	// Upload stores data under storageKey
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject removes the object; a missing object is not an error
	DeleteObject(ctx context.Context, storageKey string) error

	// GenerateDownloadURL returns a URL the client can fetch the object from
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// DefaultMaxImageSize is used when no limit is configured
const DefaultMaxImageSize int64 = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores and serves product images
type ImageService struct {
	productRepo  catalog.ProductRepository
	storage      ObjectStorage
	recorder     *appaudit.Recorder
	maxSize      int64
	urlExpiresIn time.Duration
}

// NewImageService creates a new ImageService
func NewImageService(productRepo catalog.ProductRepository, storage ObjectStorage, recorder *appaudit.Recorder, maxSize int64, urlExpiresIn time.Duration) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &ImageService{
		productRepo:  productRepo,
		storage:      storage,
		recorder:     recorder,
		maxSize:      maxSize,
		urlExpiresIn: urlExpiresIn,
	}
}

// MaxSize returns the upload limit in bytes
func (s *ImageService) MaxSize() int64 {
	return s.maxSize
}

// Upload replaces the product image. The content type is sniffed from the
// bytes; the client-declared type is ignored.
func (s *ImageService) Upload(ctx context.Context, productID uuid.UUID, data []byte) (*ImageURLResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewBadRequestError("INVALID_IMAGE", "Image file is empty")
	}
	if int64(len(data)) > s.maxSize {
		return nil, shared.NewBadRequestError("INVALID_IMAGE_SIZE",
			fmt.Sprintf("Image exceeds the maximum size of %d bytes", s.maxSize))
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mime.String()]
	if !ok {
		return nil, shared.NewBadRequestError("INVALID_IMAGE_TYPE",
			"Unsupported image type "+mime.String()+"; expected JPEG, PNG or WebP")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New(), ext)
	if err := s.storage.Upload(ctx, key, data, mime.String()); err != nil {
		return nil, err
	}

	previous := product.SetImage(key)
	if err := s.productRepo.Save(ctx, product); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			logger.L(ctx).Warn("Failed to remove orphan image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	if previous != "" {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			logger.L(ctx).Warn("Failed to delete previous product image",
				zap.String("key", previous),
				zap.Error(err),
			)
		}
	}

	s.recorder.Record(ctx, audit.ActionUpload, audit.EntityProduct, product.ID, map[string]any{
		"key":          key,
		"content_type": mime.String(),
		"size":         len(data),
	})

	url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.urlExpiresIn)
	if err != nil {
		return nil, err
	}
	return &ImageURLResponse{URL: url, ContentType: mime.String()}, nil
}

// GetURL returns a download URL for the product image
func (s *ImageService) GetURL(ctx context.Context, productID uuid.UUID) (*ImageURLResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.ImageKey == "" {
		return nil, shared.NewNotFoundError("IMAGE_NOT_FOUND", "Product has no image")
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, product.ImageKey, s.urlExpiresIn)
	if err != nil {
		return nil, err
	}
	return &ImageURLResponse{URL: url}, nil
}
