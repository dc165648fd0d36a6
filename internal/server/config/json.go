package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations may be written as
// strings ("30s") or integer nanoseconds. Zero values leave the current
// setting untouched.
type JsonConfig struct {
	EndpointAddrHTTP       string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC       string         `json:"endpoint_addr_grpc"`
	DatabaseDSN            string         `json:"database_dsn"`
	LogLevel               string         `json:"log_level"`
	SessionTTL             timex.Duration `json:"session_ttl"`
	StorageBackend         string         `json:"storage_backend"`
	FolderPath             string         `json:"folder_path"`
	S3RootUser             string         `json:"s3_root_user"`
	S3RootPassword         string         `json:"s3_root_password"`
	S3Bucket               string         `json:"s3_bucket"`
	S3Region               string         `json:"s3_region"`
	S3BaseEndpoint         string         `json:"s3_base_endpoint"`
	GCSBucket              string         `json:"gcs_bucket"`
	WorkerConcurrency      int            `json:"worker_concurrency"`
	QueuePollInterval      timex.Duration `json:"queue_poll_interval"`
	QueueVisibilityTimeout timex.Duration `json:"queue_visibility_timeout"`
	QueueMaxAttempts       int            `json:"queue_max_attempts"`
	ShutdownTimeout        timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the file named by -c/-config, if any.
// An unreadable file or invalid JSON panics: the process cannot start with a
// config the operator did not intend.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.FolderPath, c.FolderPath)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.GCSBucket, c.GCSBucket)
	setInt(&config.WorkerConcurrency, c.WorkerConcurrency)
	setDuration(&config.QueuePollInterval, c.QueuePollInterval)
	setDuration(&config.QueueVisibilityTimeout, c.QueueVisibilityTimeout)
	setInt(&config.QueueMaxAttempts, c.QueueMaxAttempts)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
