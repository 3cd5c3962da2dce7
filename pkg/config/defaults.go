package config

import "time"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultPhoneRegion       = "AE"
	DefaultPhoneMobilePrefix = "5"
	DefaultDOBPivotBoundary  = 25

	DefaultBatchWorkers     = 4
	DefaultReportIssueLimit = 10
	DefaultCSVDelimiter     = ";"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "contacts"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 600
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// upper bound for BATCH_WORKERS
	MaxBatchWorkers = 256
)
