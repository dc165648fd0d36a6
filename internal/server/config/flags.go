package config

import (
	"flag"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-d", "-l", "-t", "-storage", "-f",
	"-u", "-p", "-b", "-r", "-e", "-gcs-bucket",
	"-w", "-poll", "-visibility", "-attempts", "-shutdown",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g. ":5000")
//	-g string          gRPC health bind address (e.g. ":50051")
//	-d string          PostgreSQL DSN
//	-l string          log level
//	-t duration        session TTL
//	-storage string    storage backend: local, s3, gcs
//	-f string          local storage folder
//	-u, -p string      S3 root user / password
//	-b string          S3 bucket
//	-r string          S3 region
//	-e string          S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-gcs-bucket string GCS bucket
//	-w int             worker concurrency
//	-poll duration     queue poll interval
//	-visibility dur    queue visibility timeout
//	-attempts int      max deliveries per job
//	-shutdown duration graceful shutdown timeout
//
// Unknown arguments are filtered out with flagx.FilterArgs first so the
// config file flag and test runner flags do not collide.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session TTL")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "storage backend (local, s3, gcs)")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "local storage folder")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.GCSBucket, "gcs-bucket", config.GCSBucket, "GCS bucket")
	fs.IntVar(&config.WorkerConcurrency, "w", config.WorkerConcurrency, "worker concurrency")
	fs.DurationVar(&config.QueuePollInterval, "poll", config.QueuePollInterval, "queue poll interval")
	fs.DurationVar(&config.QueueVisibilityTimeout, "visibility", config.QueueVisibilityTimeout, "queue visibility timeout")
	fs.IntVar(&config.QueueMaxAttempts, "attempts", config.QueueMaxAttempts, "max deliveries per job")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
}
