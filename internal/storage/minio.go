package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ObjectStore handles the two object-store interactions the aggregator has:
// reading the spreadsheet export blob and publishing the aggregate document.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore creates an S3-compatible object store client.
func NewObjectStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	log.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Msg("Object store initialized")

	return &ObjectStore{client: client, bucket: bucket}, nil
}

// GetObject reads a whole object into memory. The spreadsheet export is the
// only object fetched this way and is small enough for that.
func (s *ObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return body, nil
}

// PutJSON serializes v and overwrites the object at key wholesale with
// content type application/json. The store's put is atomic from a reader's
// perspective: either the old document remains or the new one is complete.
func (s *ObjectStore) PutJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Info().
		Str("key", key).
		Int("body_size", len(body)).
		Msg("Document uploaded")

	return nil
}

// HealthCheck verifies the bucket is reachable.
func (s *ObjectStore) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("object store health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
