package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, mapLookup(map[string]string{
		"PORT":               "8081",
		"DATABASE_DSN":       "postgres://env/db",
		"FOLDER_PATH":        "/var/files",
		"STORAGE_BACKEND":    "s3",
		"S3_BUCKET":          "env-bucket",
		"SESSION_TTL":        "1h",
		"WORKER_CONCURRENCY": "6",
	}))

	assert.Equal(t, ":8081", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseDSN)
	assert.Equal(t, "/var/files", cfg.FolderPath)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, "env-bucket", cfg.S3Bucket)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.WorkerConcurrency)
}

func TestParseEnv_IgnoresEmptyAndMalformed(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, mapLookup(map[string]string{
		"PORT":               "",
		"SESSION_TTL":        "tomorrow",
		"WORKER_CONCURRENCY": "-1",
		"FOLDER_PATH":        "",
	}))

	assert.Equal(t, ":5000", cfg.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
	assert.Equal(t, "/tmp/files_manager", cfg.FolderPath)
}
