package storage

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Type:         "s3",
		Bucket:       "product-images",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.StorageConfig)
		wantErr string
	}{
		{name: "missing bucket", mutate: func(c *config.StorageConfig) { c.Bucket = "" }, wantErr: "bucket is required"},
		{name: "missing access key", mutate: func(c *config.StorageConfig) { c.AccessKey = "" }, wantErr: "access key is required"},
		{name: "missing secret key", mutate: func(c *config.StorageConfig) { c.SecretKey = "" }, wantErr: "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testS3Config()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := testS3Config()
		cfg.Endpoint = "minio:9000"
		storage, err := NewS3ObjectStorage(cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "product-images", storage.Bucket())
		assert.Equal(t, defaultPresignExpiration, storage.presignExpiration)
	})
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	storage, err := NewS3ObjectStorage(testS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, storage.Upload(ctx, "", []byte("x"), "image/png"), errEmptyKey)
	assert.ErrorIs(t, storage.DeleteObject(ctx, ""), errEmptyKey)
	_, _, err = storage.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, errEmptyKey)
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(testS3Config())
	require.NoError(t, err)

	url, expiresAt, err := storage.GenerateDownloadURL(context.Background(), "products/abc/img.png", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/product-images/products/abc/img.png"))
	assert.Contains(t, url, "X-Amz-Signature")
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

// TestS3ObjectStorage_RoundTrip needs an S3-compatible server, e.g.
// STORAGE_TEST_ENDPOINT=http://localhost:9000 with minioadmin credentials.
func TestS3ObjectStorage_RoundTrip(t *testing.T) {
	endpoint := os.Getenv("STORAGE_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("STORAGE_TEST_ENDPOINT not set")
	}

	cfg := testS3Config()
	cfg.Endpoint = endpoint
	cfg.Bucket = "backoffice-test"
	cfg.AccessKey = "minioadmin"
	cfg.SecretKey = "minioadmin"

	storage, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, storage.EnsureBucket(ctx))

	key := "products/round-trip.txt"
	require.NoError(t, storage.Upload(ctx, key, []byte("hello"), "text/plain"))

	url, _, err := storage.GenerateDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(body))

	require.NoError(t, storage.DeleteObject(ctx, key))
}
