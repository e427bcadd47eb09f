package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	LogLevel    string

	// Component configurations
	Mongo   MongoConfig
	Storage StorageConfig
	HTTP    HTTPConfig
	Handler HandlerConfig
}

// MongoConfig holds the document-store connection settings.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// StorageConfig holds attachment object-storage configuration.
type StorageConfig struct {
	// Adapter selects the backend: "s3" or "memory".
	Adapter string
	Bucket  string
	Timeout time.Duration
	S3      S3Config
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // for localstack / minio
	PublicBaseURL   string // base for attachment URLs; defaults to the bucket endpoint
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr    string
	Timeout time.Duration
}

// HandlerConfig holds the request pipeline configuration.
type HandlerConfig struct {
	// Runtime selects the platform adapter: "http" or "lambda".
	Runtime        string
	Timeout        time.Duration
	MaxRequestSize int64
	EnableMetrics  bool
}

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.ServiceName == "" {
		errs = append(errs, "SERVICE_NAME is required")
	}
	if c.Mongo.URI == "" {
		errs = append(errs, "MONGO_URI is required")
	}
	if c.Mongo.Database == "" {
		errs = append(errs, "MONGO_DATABASE is required")
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, "HTTP_TIMEOUT must be positive")
	}
	if c.Handler.Timeout <= 0 {
		errs = append(errs, "HANDLER_TIMEOUT must be positive")
	}
	if c.Handler.MaxRequestSize <= 0 {
		errs = append(errs, "HANDLER_MAX_REQUEST_SIZE must be positive")
	}
	switch c.Handler.Runtime {
	case "http", "lambda":
	default:
		errs = append(errs, fmt.Sprintf("HANDLER_RUNTIME must be http or lambda, got %q", c.Handler.Runtime))
	}
	switch c.Storage.Adapter {
	case "s3", "memory":
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_ADAPTER must be s3 or memory, got %q", c.Storage.Adapter))
	}
	if c.IsProduction() {
		if c.Storage.Adapter != "s3" {
			errs = append(errs, "STORAGE_ADAPTER must be s3 in production")
		}
		if c.Storage.Bucket == "" {
			errs = append(errs, "STORAGE_BUCKET is required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction reports whether the service runs in a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsLocal reports whether the service runs locally.
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development" || c.Environment == "dev"
}
