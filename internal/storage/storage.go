package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/catatanku/backend/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the MinIO SDK for note thumbnails, attachments and profile
// images. Objects are public-read; the returned URL is stored on the record.
type Client struct {
	mc         *minio.Client
	bucket     string
	publicBase string
}

func New(cfg *config.Config) (*Client, error) {
	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := mc.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicBase := cfg.PublicFileBase
	if publicBase == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &Client{mc: mc, bucket: cfg.MinioBucket, publicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

// Upload stores the object under folder/<uuid>_<name> and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, fileName, contentType string, r io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("%s/%s_%s", folder, uuid.NewString(), sanitize(fileName))

	_, err := c.mc.PutObject(ctx, c.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return c.publicBase + "/" + objectName, nil
}

// Delete removes the object behind a URL previously returned by Upload.
// Unknown URLs are ignored so stale records never block deletes.
func (c *Client) Delete(ctx context.Context, url string) error {
	if url == "" || !strings.HasPrefix(url, c.publicBase+"/") {
		return nil
	}
	objectName := strings.TrimPrefix(url, c.publicBase+"/")
	return c.mc.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{})
}

func sanitize(name string) string {
	name = path.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
