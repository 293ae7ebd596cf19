package config

import (
	"os"
	"strconv"

	"dentastat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds survey data source settings. When DatabaseURL is set the
// Postgres source wins; otherwise SurveyFile; otherwise the synthetic
// generator is used for development.
type DataConfig struct {
	SurveyFile    string
	DatabaseURL   string
	SyntheticRows int
	SyntheticSeed int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			SurveyFile:    getEnvOrDefault("SURVEY_FILE", ""),
			DatabaseURL:   getEnvOrDefault("DATABASE_URL", ""),
			SyntheticRows: getEnvIntOrDefault("SYNTHETIC_ROWS", 400),
			SyntheticSeed: getEnvInt64OrDefault("SYNTHETIC_SEED", 42),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Data.SurveyFile == "" && config.Data.DatabaseURL == "" && config.Data.SyntheticRows <= 0 {
		return errors.ConfigInvalid("no data source configured: set SURVEY_FILE, DATABASE_URL, or SYNTHETIC_ROWS > 0")
	}
	return nil
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
