package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sabdakrida_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService holds binary artifacts: learner recordings kept for
// review, and synthesized teacher audio.
type StorageService interface {
	Put(ctx context.Context, objectName string, data []byte, contentType string) error
	Get(ctx context.Context, objectName string) ([]byte, error)
}

func NewStorageService(cfg config.StorageConfig) (StorageService, error) {
	if cfg.Type == "minio" {
		return newMinioStorage(cfg)
	}
	return &localStorage{root: cfg.LocalPath}, nil
}

type localStorage struct {
	root string
}

func (s *localStorage) path(objectName string) string {
	// flatten to avoid traversal outside the storage root
	return filepath.Join(s.root, strings.ReplaceAll(objectName, "..", ""))
}

func (s *localStorage) Put(_ context.Context, objectName string, data []byte, _ string) error {
	p := s.path(objectName)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func (s *localStorage) Get(_ context.Context, objectName string) ([]byte, error) {
	return os.ReadFile(s.path(objectName))
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg config.StorageConfig) (*minioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *minioStorage) Put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *minioStorage) Get(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}
