package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"google.golang.org/api/option"
)

// GCSStore keeps blobs as objects of a Google Cloud Storage bucket.
// Credentials are resolved by the client library from the environment.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is not configured")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client error: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Put uploads data in a single object write. The object appears only after
// the writer is closed successfully.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("%w: %v", common.ErrorTransientStorage, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransientStorage, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, mapGCSError(err)
	}
	return data, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func mapGCSError(err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrorTransientStorage, err)
}
