// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Input handling
	RulesPath    string
	StrictSchema bool
	MinColumns   int

	// Output locations
	OutputDir  string
	ReportName string

	// Optional multivariate outlier pass
	RowOutlierFilter bool
	RowOutlierZ      float64

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is layered in first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RulesPath:        getEnv("TIDYTABLE_RULES", ""),
		StrictSchema:     getEnvAsBool("TIDYTABLE_STRICT_SCHEMA", false),
		MinColumns:       getEnvAsInt("TIDYTABLE_MIN_COLUMNS", 1),
		OutputDir:        getEnv("TIDYTABLE_OUTPUT_DIR", "."),
		ReportName:       getEnv("TIDYTABLE_REPORT_NAME", "impact_report"),
		RowOutlierFilter: getEnvAsBool("TIDYTABLE_ROW_OUTLIER_FILTER", false),
		RowOutlierZ:      getEnvAsFloat("TIDYTABLE_ROW_OUTLIER_Z", 3.0),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.MinColumns < 1 {
		return errors.New("minimum column count must be positive")
	}
	if c.RowOutlierZ <= 0 {
		return errors.New("row outlier z threshold must be positive")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.New("log format must be json or console")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
