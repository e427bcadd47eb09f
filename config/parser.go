package config

// parse reads configuration from environment variables.
func parse() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "local"),
		ServiceName: getEnv("SERVICE_NAME", "accessaudit"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "accessaudit"),
			Timeout:  getDuration("MONGO_TIMEOUT", "10s"),
		},

		Storage: StorageConfig{
			Adapter: getEnv("STORAGE_ADAPTER", "memory"),
			Bucket:  getEnv("STORAGE_BUCKET", ""),
			Timeout: getDuration("STORAGE_TIMEOUT", "30s"),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-2"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
			},
		},

		HTTP: HTTPConfig{
			Addr:    getEnv("HTTP_ADDR", ":8080"),
			Timeout: getDuration("HTTP_TIMEOUT", "60s"),
		},

		Handler: HandlerConfig{
			Runtime:        getEnv("HANDLER_RUNTIME", "http"),
			Timeout:        getDuration("HANDLER_TIMEOUT", "30s"),
			MaxRequestSize: int64(getInt("HANDLER_MAX_REQUEST_SIZE", 10*1024*1024)),
			EnableMetrics:  getBool("HANDLER_ENABLE_METRICS", true),
		},
	}

	return cfg, nil
}
