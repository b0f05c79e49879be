// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration

	// CategoriesPath is a YAML category table. Empty uses the built-in table.
	CategoriesPath string

	// RecordRepayments appends a repayment expense when an obligation is completed.
	RecordRepayments bool
}

const devSecret = "dutchpay-dev-secret-change-me"

// Load reads configuration from the environment, after loading the given
// dotenv files (".env" when none are named). Missing dotenv files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive")
	}

	record, err := strconv.ParseBool(getEnv("RECORD_REPAYMENTS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECORD_REPAYMENTS: %w", err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "./data/dutchpay.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		JWTSecret:        getEnv("JWT_SECRET", devSecret),
		TokenTTL:         ttl,
		CategoriesPath:   getEnv("CATEGORIES_PATH", ""),
		RecordRepayments: record,
	}, nil
}

// InsecureSecret reports whether the built-in development JWT secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.JWTSecret == devSecret
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
