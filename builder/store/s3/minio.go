package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/centerhq/appstore-server/common/config"
)

// Client is the narrow object-store surface the core needs: put an artifact,
// drop an artifact, derive a public url, and report reachability for the
// health check.
type Client interface {
	Upload(ctx context.Context, objectID string, reader io.Reader, size int64, opts UploadOptions) (string, error)
	Remove(ctx context.Context, objectID string) error
	PublicURL(objectID string) string
	Ping(ctx context.Context) error
}

type UploadOptions struct {
	ContentType string
	Tags        map[string]string
}

type minioClient struct {
	client *minio.Client
	bucket string
	// endpoint download urls are built against, may differ from the API endpoint
	publicEndpoint string
	secure         bool
}

func NewMinio(cfg *config.Config) (Client, error) {
	mc, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKeyID, cfg.S3.AccessKeySecret, ""),
		Secure: cfg.S3.EnableSSL,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init s3 client, error:%w", err)
	}
	publicEndpoint := cfg.S3.PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = cfg.S3.Endpoint
	}
	return &minioClient{
		client:         mc,
		bucket:         cfg.S3.Bucket,
		publicEndpoint: publicEndpoint,
		secure:         cfg.S3.EnableSSL,
	}, nil
}

func (c *minioClient) Upload(ctx context.Context, objectID string, reader io.Reader, size int64, opts UploadOptions) (string, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := c.client.PutObject(ctx, c.bucket, objectID, reader, size, minio.PutObjectOptions{
		ContentType:    contentType,
		UserTags:       opts.Tags,
		SendContentMd5: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectID, err)
	}
	return c.PublicURL(objectID), nil
}

func (c *minioClient) Remove(ctx context.Context, objectID string) error {
	return c.client.RemoveObject(ctx, c.bucket, objectID, minio.RemoveObjectOptions{})
}

func (c *minioClient) PublicURL(objectID string) string {
	scheme := "http"
	if c.secure {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   c.publicEndpoint,
		Path:   "/" + c.bucket + "/" + objectID,
	}
	return u.String()
}

func (c *minioClient) Ping(ctx context.Context) error {
	_, err := c.client.BucketExists(ctx, c.bucket)
	return err
}
