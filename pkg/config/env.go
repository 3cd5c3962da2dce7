package config

const (
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvPhoneDefaultRegion = "PHONE_DEFAULT_REGION"
	EnvPhoneMobilePrefix  = "PHONE_MOBILE_PREFIX"
	EnvDOBPivotBoundary   = "DOB_PIVOT_BOUNDARY"

	EnvBatchWorkers     = "BATCH_WORKERS"
	EnvReportIssueLimit = "REPORT_ISSUE_LIMIT"
	EnvCSVDelimiter     = "CSV_DELIMITER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort = "PORT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
