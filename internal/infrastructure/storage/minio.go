// Package storage implements the object-storage port on MinIO
// (S3-compatible), used for customer profile images.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// Config captures the settings for reaching the MinIO endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Client wraps a MinIO client behind the ObjectStorage port. Backend
// failures are surfaced as domain.ErrStorageUnavailable with the cause
// attached.
type Client struct {
	mc *minio.Client
}

func New(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc}, nil
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.mc.BucketExists(ctx, bucket)
	if err != nil {
		return false, storageErr("bucket exists", err)
	}
	return exists, nil
}

func (c *Client) MakeBucket(ctx context.Context, bucket string) error {
	if err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return storageErr("make bucket", err)
	}
	return nil
}

func (c *Client) PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error {
	_, err := c.mc.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return storageErr("put object", err)
	}
	return nil
}

// ObjectURL returns the public URL of a stored object on this endpoint.
func (c *Client) ObjectURL(bucket, key string) string {
	endpoint := strings.TrimRight(c.mc.EndpointURL().String(), "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
