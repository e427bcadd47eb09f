// Package config loads and validates application configuration from
// environment variables and optional .env files.
package config

import (
	"fmt"
	"sync"
)

var (
	mu       sync.Mutex
	instance *Config
	loaded   bool
)

// Load loads configuration from environment variables and .env files.
// Called once at application startup; subsequent calls are no-ops.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	if loaded {
		return nil
	}

	if err := loadEnvFiles(); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	cfg, err := parse()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	instance = cfg
	loaded = true
	return nil
}

// MustLoad loads configuration and panics on error. For application
// initialization where a bad config is fatal.
func MustLoad() {
	if err := Load(); err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
}

// Get returns the current configuration, or an error when Load has not run.
func Get() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if !loaded || instance == nil {
		return nil, fmt.Errorf("configuration not loaded; call Load() first")
	}
	return instance, nil
}

// MustGet returns the configuration or panics if not loaded.
func MustGet() *Config {
	cfg, err := Get()
	if err != nil {
		panic(fmt.Sprintf("failed to get configuration: %v", err))
	}
	return cfg
}

// Reset clears the loaded configuration. Test helper.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	loaded = false
}
