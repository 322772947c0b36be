// Package config provides configuration management for the converter.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Documents DocumentsConfig
	DBPath    string
	Strict    bool
	Debug     bool
}

// DocumentsConfig holds the paths of the three configuration documents.
type DocumentsConfig struct {
	InputSchema     string
	OutputSchema    string
	ProcessingRules string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if
// available; a custom .env path can be supplied.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Best effort; a missing .env is fine.
		_ = godotenv.Load()
	}

	config := &Config{
		Documents: DocumentsConfig{
			InputSchema:     getEnvOrDefault("FLEX_INPUT_SCHEMA", "config/input_schema.json"),
			OutputSchema:    getEnvOrDefault("FLEX_OUTPUT_SCHEMA", "config/output_schema.json"),
			ProcessingRules: getEnvOrDefault("FLEX_PROCESSING_RULES", "config/processing_rules.json"),
		},
		DBPath: getEnvOrDefault("FLEX_DB_PATH", "data/flex-convert.db"),
		Strict: os.Getenv("FLEX_STRICT_VALIDATION") == "true",
		Debug:  os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that the configured document paths exist.
func (c *Config) Validate() error {
	var missing []string

	for _, path := range []string{
		c.Documents.InputSchema,
		c.Documents.OutputSchema,
		c.Documents.ProcessingRules,
	} {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration documents: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default
// value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
