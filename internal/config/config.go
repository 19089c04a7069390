package config

import (
	"os"
	"strconv"

	"facilitydash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Dashboard DashboardConfig
	Ops       OpsConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig selects where the dataset comes from
type DataConfig struct {
	Source string // "file" or "sql"
	File   string
	Table  string
}

// DatabaseConfig holds the connection used when Data.Source is "sql"
type DatabaseConfig struct {
	Driver string
	URL    string
}

// DashboardConfig holds presentation settings
type DashboardConfig struct {
	DefaultVariant string
	TableRowLimit  int
}

// OpsConfig holds the health/profiling listener settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

const (
	SourceFile = "file"
	SourceSQL  = "sql"

	DefaultDataFile = "Healthcare_Associated_Infections-Hospital.csv"
)

var knownVariants = map[string]bool{"facility": true, "infections": true}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			Source: getEnvOrDefault("DATA_SOURCE", SourceFile),
			File:   getEnvOrDefault("DATA_FILE", DefaultDataFile),
			Table:  getEnvOrDefault("DATA_TABLE", "facilities"),
		},
		Database: DatabaseConfig{
			Driver: getEnvOrDefault("DATABASE_DRIVER", "postgres"),
			URL:    getEnvOrDefault("DATABASE_URL", ""),
		},
		Dashboard: DashboardConfig{
			DefaultVariant: getEnvOrDefault("DEFAULT_VARIANT", "infections"),
			TableRowLimit:  getEnvIntOrDefault("TABLE_ROW_LIMIT", 500),
		},
		Ops: OpsConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", false),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceFile:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATA_FILE is required when DATA_SOURCE=file")
		}
	case SourceSQL:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when DATA_SOURCE=sql")
		}
		if config.Data.Table == "" {
			return errors.ConfigInvalid("DATA_TABLE is required when DATA_SOURCE=sql")
		}
	default:
		return errors.ConfigInvalid("DATA_SOURCE must be file or sql, got " + strconv.Quote(config.Data.Source))
	}
	if !knownVariants[config.Dashboard.DefaultVariant] {
		return errors.ConfigInvalid("DEFAULT_VARIANT must be facility or infections")
	}
	if config.Dashboard.TableRowLimit <= 0 {
		return errors.ConfigInvalid("TABLE_ROW_LIMIT must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
