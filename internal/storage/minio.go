package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
)

// apiPathPrefix is the path under which stored objects are served back.
const apiPathPrefix = "/api/files/"

// FileStore persists uploaded files in a MinIO bucket.
type FileStore struct {
	client *minio.Client
	bucket string
}

// NewFileStore connects to MinIO and ensures the configured bucket exists.
func NewFileStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*FileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created storage bucket", zap.String("bucket", cfg.Bucket))
	}

	logger.Info("connected to minio", zap.String("endpoint", cfg.Endpoint))
	return &FileStore{client: client, bucket: cfg.Bucket}, nil
}

// Store uploads the file under the given path with a random object name and
// returns the API path it will be served from.
func (s *FileStore) Store(ctx context.Context, path, fileName, contentType string, content io.Reader, size int64) (string, error) {
	if strings.Contains(fileName, "..") {
		return "", fmt.Errorf("filename contains invalid path sequence: %s", fileName)
	}

	objectName := path + "/" + uuid.NewString() + filepath.Ext(fileName)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store file %s: %w", objectName, err)
	}
	return apiPathPrefix + objectName, nil
}

// Delete removes a previously stored file identified by its API path.
func (s *FileStore) Delete(ctx context.Context, filePath string) error {
	objectName := strings.TrimPrefix(filePath, apiPathPrefix)
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete file %s: %w", filePath, err)
	}
	return nil
}

// PresignedURL returns a time-limited direct-access URL for the object.
func (s *FileStore) PresignedURL(ctx context.Context, filePath string, expiry time.Duration) (string, error) {
	objectName := strings.TrimPrefix(filePath, apiPathPrefix)
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", filePath, err)
	}
	return url.String(), nil
}
