// Package blobstore keeps file content addressed by opaque storage keys.
// Every backend makes a blob visible only once it is completely written.
package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/google/uuid"
)

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns common.ErrorNotFound when no blob exists under key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// NewStorageKey returns a fresh key of the form files/<year>/<month>/<day>/<uuid>.
func NewStorageKey(now time.Time) string {
	return fmt.Sprintf("files/%d/%d/%d/%v", now.Year(), now.Month(), now.Day(), uuid.New())
}

// New builds the backend selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal, "":
		return NewLocalStore(cfg.FolderPath), nil
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3BaseEndpoint,
		})
	case config.StorageGCS:
		return NewGCSStore(ctx, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
