package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"contactnorm/pkg/client"
	"contactnorm/pkg/logger"

	"github.com/nyaruka/phonenumbers"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mobilePrefixRegex  = regexp.MustCompile(`^[0-9]{0,3}$`)
	mongoCredentialsRe = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

type Config struct {
	LogLevel  string
	LogFormat string

	PhoneRegion       string
	PhoneMobilePrefix string
	DOBPivotBoundary  int

	BatchWorkers     int
	ReportIssueLimit int
	CSVDelimiter     string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// FromEnv reads the configuration without validating it, so callers can
// apply flag overrides first.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		PhoneRegion:       getEnvStr(EnvPhoneDefaultRegion, DefaultPhoneRegion),
		PhoneMobilePrefix: getEnvStr(EnvPhoneMobilePrefix, DefaultPhoneMobilePrefix),
		DOBPivotBoundary:  getEnvNum(EnvDOBPivotBoundary, DefaultDOBPivotBoundary),

		BatchWorkers:     getEnvNum(EnvBatchWorkers, DefaultBatchWorkers),
		ReportIssueLimit: getEnvNum(EnvReportIssueLimit, DefaultReportIssueLimit),
		CSVDelimiter:     getEnvStr(EnvCSVDelimiter, DefaultCSVDelimiter),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}
	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	return cfg
}

// Load is FromEnv followed by validation. Invalid configuration is fatal.
func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// SetMongo connects the shared client. Connection failures are fatal.
func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// Delimiter returns CSVDelimiter as a rune. Call after Validate.
func (cfg *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(cfg.CSVDelimiter)
	return r
}

func (cfg *Config) Validate() error {
	var errors []string

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	if phonenumbers.GetCountryCodeForRegion(cfg.PhoneRegion) == 0 {
		errors = append(errors, fmt.Sprintf("PhoneRegion must be a known ISO 3166 region code, got: %s", cfg.PhoneRegion))
	}
	if !mobilePrefixRegex.MatchString(cfg.PhoneMobilePrefix) {
		errors = append(errors, fmt.Sprintf("PhoneMobilePrefix must be up to 3 digits, got: %s", cfg.PhoneMobilePrefix))
	}
	if cfg.DOBPivotBoundary < 0 || cfg.DOBPivotBoundary > 99 {
		errors = append(errors, fmt.Sprintf("DOBPivotBoundary must be between 0 and 99, got: %d", cfg.DOBPivotBoundary))
	}

	if cfg.BatchWorkers < 1 || cfg.BatchWorkers > MaxBatchWorkers {
		errors = append(errors, fmt.Sprintf("BatchWorkers must be between 1 and %d, got: %d", MaxBatchWorkers, cfg.BatchWorkers))
	}
	if cfg.ReportIssueLimit < 0 {
		errors = append(errors, fmt.Sprintf("ReportIssueLimit cannot be negative, got: %d", cfg.ReportIssueLimit))
	}
	if utf8.RuneCountInString(cfg.CSVDelimiter) != 1 || cfg.CSVDelimiter == "\"" || cfg.CSVDelimiter == "\n" || cfg.CSVDelimiter == "\r" {
		errors = append(errors, fmt.Sprintf("CSVDelimiter must be a single character other than quote or newline, got: %q", cfg.CSVDelimiter))
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"phone_region", cfg.PhoneRegion,
		"phone_mobile_prefix", cfg.PhoneMobilePrefix,
		"dob_pivot_boundary", cfg.DOBPivotBoundary,
		"batch_workers", cfg.BatchWorkers,
		"report_issue_limit", cfg.ReportIssueLimit,
		"csv_delimiter", cfg.CSVDelimiter,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	return mongoCredentialsRe.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
