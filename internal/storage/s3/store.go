package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPrefix namespaces post images inside the bucket
const objectPrefix = "posts/"

// Config holds the connection settings for the S3-compatible object store
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBaseURL is the externally reachable base for stored objects,
	// e.g. "http://localhost:9000". Persisted URLs are built from it.
	PublicBaseURL string
	UseSSL        bool
}

// Store is a media.Store backed by an S3-compatible object store
type Store struct {
	cfg    Config
	client *minio.Client
}

// New creates a store client; it does not touch the network
func New(cfg Config) (*Store, error) {
	cl, err := minio.New(strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &Store{cfg: cfg, client: cl}, nil
}

// EnsureBucket creates the configured bucket if it does not exist
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Upload stores the image under a fresh key and returns its permanent URL.
// The object name carries the file extension so the stored URL yields the
// bare key back when the extension is stripped on delete.
func (s *Store) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	name := objectPrefix + uuid.NewString() + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", name, err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.PublicBaseURL, "/"), s.cfg.Bucket, name), nil
}

// Delete removes the object identified by the extension-stripped key.
// The stored object name still carries its extension, so the object is
// located by prefix rather than exact name.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("object id cannot be empty")
	}

	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix: objectPrefix + id,
	}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to locate object %s: %w", id, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.cfg.Bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove object %s: %w", obj.Key, err)
		}
	}

	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
