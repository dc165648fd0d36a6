// Package kvstore is a string key-value store with per-key expiry. Expired
// keys read as missing even before they are swept.
package kvstore

import (
	"context"
	"time"
)

type Repository interface {
	// Set stores value under key for ttl, replacing any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns common.ErrorNotFound for missing or expired keys.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// DeleteExpired sweeps expired keys and reports how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
