package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"substratex/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Solver    SolverConfig
	Indicator IndicatorConfig
	Export    ExportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// DSN returns the connection string with the configured sslmode applied
// when the URL does not already carry one. Both URL and keyword/value
// forms are handled.
func (d DatabaseConfig) DSN() string {
	if d.URL == "" || d.SSLMode == "" || strings.Contains(d.URL, "sslmode=") {
		return d.URL
	}
	if strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://") {
		sep := "?"
		if strings.Contains(d.URL, "?") {
			sep = "&"
		}
		return d.URL + sep + "sslmode=" + d.SSLMode
	}
	return d.URL + " sslmode=" + d.SSLMode
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// SolverConfig holds numerical integration settings
type SolverConfig struct {
	StepSize      float64
	MaxSteps      int
	DivergeBound  float64
	SweepWorkers  int
	CaseTimeout   time.Duration
	SuiteCapacity int64
}

// IndicatorConfig holds risk indicator threshold settings
type IndicatorConfig struct {
	ContractThreshold float64
	ExpandThreshold   float64
	ScaleFactor       float64
}

// ExportConfig holds export target settings
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Solver: SolverConfig{
			StepSize:      getEnvFloatOrDefault("SOLVER_DT", 0.05),
			MaxSteps:      getEnvIntOrDefault("SOLVER_MAX_STEPS", 1000),
			DivergeBound:  getEnvFloatOrDefault("SOLVER_DIVERGE_BOUND", 1e12),
			SweepWorkers:  getEnvIntOrDefault("SWEEP_WORKERS", 4),
			CaseTimeout:   getEnvDurationOrDefault("CASE_TIMEOUT", 2*time.Minute),
			SuiteCapacity: int64(getEnvIntOrDefault("SUITE_CAPACITY", 10)),
		},
		Indicator: IndicatorConfig{
			ContractThreshold: getEnvFloatOrDefault("CONTRACT_THRESHOLD", 0.117),
			ExpandThreshold:   getEnvFloatOrDefault("EXPAND_THRESHOLD", 0.453),
			ScaleFactor:       getEnvFloatOrDefault("INDICATOR_SCALE", 100.0),
		},
		Export: ExportConfig{
			Dir: getEnvOrDefault("EXPORT_DIR", "./exports"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Solver.StepSize <= 0 {
		return errors.ConfigInvalid("SOLVER_DT must be positive")
	}
	if config.Solver.MaxSteps <= 0 {
		return errors.ConfigInvalid("SOLVER_MAX_STEPS must be positive")
	}
	if config.Solver.DivergeBound <= 0 {
		return errors.ConfigInvalid("SOLVER_DIVERGE_BOUND must be positive")
	}
	if config.Solver.SweepWorkers <= 0 {
		return errors.ConfigInvalid("SWEEP_WORKERS must be positive")
	}
	if config.Indicator.ContractThreshold >= config.Indicator.ExpandThreshold {
		return errors.ConfigInvalid("CONTRACT_THRESHOLD must be below EXPAND_THRESHOLD")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
