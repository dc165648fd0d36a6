package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// loadEnvLookup loads a .env file from the working directory when present.
// Variables already set in the process environment win over the file.
func loadEnvLookup() lookupFunc {
	_ = godotenv.Load()
	return os.LookupEnv
}

// parseEnv overlays values from environment variables.
//
//	PORT                     HTTP port (":" is prepended)
//	DATABASE_DSN             PostgreSQL DSN
//	LOG_LEVEL                debug, info, warn or error
//	SESSION_TTL              session lifetime, e.g. "24h"
//	STORAGE_BACKEND          local, s3 or gcs
//	FOLDER_PATH              local storage root
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//	GCS_BUCKET
//	WORKER_CONCURRENCY       parallel jobs per worker process
//
// Malformed numeric or duration values are ignored.
func parseEnv(config *Config, lookup lookupFunc) {
	if v, ok := lookup("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}

	envString(lookup, "DATABASE_DSN", &config.DatabaseDSN)
	envString(lookup, "LOG_LEVEL", &config.LogLevel)
	envString(lookup, "STORAGE_BACKEND", &config.StorageBackend)
	envString(lookup, "FOLDER_PATH", &config.FolderPath)
	envString(lookup, "S3_ROOT_USER", &config.S3RootUser)
	envString(lookup, "S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString(lookup, "S3_BUCKET", &config.S3Bucket)
	envString(lookup, "S3_REGION", &config.S3Region)
	envString(lookup, "S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envString(lookup, "GCS_BUCKET", &config.GCSBucket)

	if v, ok := lookup("SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}

	if v, ok := lookup("WORKER_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.WorkerConcurrency = n
		}
	}
}

func envString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}
