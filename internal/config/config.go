package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fairbench/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Notebooks NotebookConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Data      DataConfig
}

// NotebookConfig holds notebook runner settings. The tutorials directory is
// explicit configuration here, not ambient state created at import time.
type NotebookConfig struct {
	TutorialsDir string        `validate:"required"`
	Timeout      time.Duration // per-notebook wall-clock limit
	Enabled      []string      // name substrings to run; empty = run everything
	JupyterBin   string        // executable used to run notebooks
}

// DatabaseConfig holds the optional run-ledger database settings
type DatabaseConfig struct {
	URL string // empty disables the persistent ledger
}

// ServerConfig holds report server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds tabular data source settings for the scorers
type DataConfig struct {
	File          string // .xlsx or .csv dataset path
	LeakageColumn string // dropped from the feature matrix before training
}

// DefaultNotebookTimeout is the fixed per-notebook execution limit.
const DefaultNotebookTimeout = 1800 * time.Second

// DefaultLeakageColumn is the outcome-leakage column excluded from training.
const DefaultLeakageColumn = "is_dead_at_time_horizon=14"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Notebooks: NotebookConfig{
			TutorialsDir: getEnvOrDefault("TUTORIALS_DIR", "."),
			Timeout:      time.Duration(getEnvIntOrDefault("NB_TIMEOUT_SECONDS", int(DefaultNotebookTimeout/time.Second))) * time.Second,
			Enabled:      splitList(os.Getenv("NB_ENABLED")),
			JupyterBin:   getEnvOrDefault("JUPYTER_BIN", "jupyter"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			File:          os.Getenv("DATA_FILE"),
			LeakageColumn: getEnvOrDefault("LEAKAGE_COLUMN", DefaultLeakageColumn),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Notebooks.TutorialsDir == "" {
		return errors.ConfigInvalid("tutorials directory is required")
	}
	if config.Notebooks.Timeout <= 0 {
		return errors.ConfigInvalid("notebook timeout must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
