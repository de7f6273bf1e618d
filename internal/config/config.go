package config

import (
	"os"
	"time"
)

const defaultSeedURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

type Config struct {
	DatabaseURL string
	SeedURL     string
	SeedTimeout time.Duration
	Port        string
	Environment string
	LogLevel    string
}

func Load() *Config {
	// Default MySQL connection string
	defaultDSN := "root:root@tcp(127.0.0.1:3306)/transactions?charset=utf8mb4&parseTime=True&loc=UTC"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		SeedURL:     getEnv("SEED_URL", defaultSeedURL),
		SeedTimeout: getDuration("SEED_TIMEOUT", 30*time.Second),
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration falls back to defaultValue when the variable is unset or unparsable.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
