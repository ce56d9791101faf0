// backend-go/internal/storage/minio.go
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
	"github.com/blackdogpanama/pedidos/backend-go/pkg/logger"
)

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to the configured endpoint and ensures the bucket
// exists.
func NewMinioStorage(ctx context.Context, cfg *config.StorageConfig) (ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("could not create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Log.Info().Str("bucket", cfg.Bucket).Msg("Created storage bucket")
	}

	return &minioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStorage) Upload(ctx context.Context, localPath, objectName, contentType string) (string, error) {
	info, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("could not upload %s: %w", objectName, err)
	}

	logger.Log.Info().
		Str("bucket", s.bucket).
		Str("object", objectName).
		Int64("size", info.Size).
		Msg("Uploaded run artifact")

	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}

// noopStorage is used when object storage is disabled; artifacts stay on the
// local filesystem only.
type noopStorage struct{}

func NewNoopStorage() ObjectStorage { return &noopStorage{} }

func (s *noopStorage) Upload(_ context.Context, localPath, _, _ string) (string, error) {
	return localPath, nil
}
