package imagehost

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
)

const defaultContentType = "application/octet-stream"

// objectStore 抽取 minio 客户端中用到的方法，便于测试替换。
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioHost stores gallery images in an S3-compatible bucket.
type MinioHost struct {
	bucketName    string
	publicBaseURL string
	client        objectStore
}

// Options carries the connection settings for NewMinioHost.
type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// NewMinioHost creates a MinioHost instance.
func NewMinioHost(opts Options) (*MinioHost, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicBaseURL := strings.TrimSuffix(opts.PublicBaseURL, "/")
	if publicBaseURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &MinioHost{
		bucketName:    opts.Bucket,
		publicBaseURL: publicBaseURL,
		client:        client,
	}, nil
}

// Upload stores the object under a date-prefixed unique name and returns its id and URL.
func (h *MinioHost) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (Upload, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)

	if _, err := h.client.PutObject(ctx, h.bucketName, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return Upload{}, fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	return Upload{
		PublicID: objectName,
		URL:      fmt.Sprintf("%s/%s", h.publicBaseURL, objectName),
	}, nil
}

// Destroy removes the object identified by publicID from the bucket.
func (h *MinioHost) Destroy(ctx context.Context, publicID string) error {
	if err := h.client.RemoveObject(ctx, h.bucketName, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", publicID, err)
	}
	return nil
}
