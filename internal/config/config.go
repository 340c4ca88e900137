// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Gemini model provider
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string // fast model
	GeminiDeepModel string // deep-think model

	// Apify discovery provider
	ApifyToken   string
	ApifyTaskID  string // default search task, e.g. "apify/google-search-scraper"
	ApifyBaseURL string

	// Unsplash stock images
	UnsplashAccessKey string
	UnsplashBaseURL   string

	// Endpoint secrets
	AdminSecret string
	CronSecret  string

	// Content settings
	Author string

	// Scheduler
	SchedulerEnabled bool
	GenerateSchedule string // cron expression for the daily batch
	GenerateCount    int    // posts per scheduled batch
	CleanupSchedule  string // cron expression for old-post cleanup
	RetentionDays    int    // generated posts older than this are eligible for cleanup
	KeepMinPosts     int    // newest posts always kept regardless of age
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "postforge"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "postforge"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		GeminiDeepModel: os.Getenv("GEMINI_DEEP_MODEL"),

		ApifyToken:   os.Getenv("APIFY_TOKEN"),
		ApifyTaskID:  os.Getenv("APIFY_TASK_ID"),
		ApifyBaseURL: os.Getenv("APIFY_BASE_URL"),

		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
		UnsplashBaseURL:   os.Getenv("UNSPLASH_BASE_URL"),

		AdminSecret: os.Getenv("ADMIN_SECRET"),
		CronSecret:  os.Getenv("CRON_SECRET"),

		Author: envOrDefault("POST_AUTHOR", "AI Content Team"),

		SchedulerEnabled: envOrDefault("SCHEDULER_ENABLED", "true") == "true",
		GenerateSchedule: envOrDefault("GENERATE_SCHEDULE", "0 6 * * *"),
		GenerateCount:    envIntOrDefault("GENERATE_COUNT", 1),
		CleanupSchedule:  envOrDefault("CLEANUP_SCHEDULE", "0 4 * * 0"),
		RetentionDays:    envIntOrDefault("RETENTION_DAYS", 90),
		KeepMinPosts:     envIntOrDefault("KEEP_MIN_POSTS", 20),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminSecret == "" {
			return nil, fmt.Errorf("ADMIN_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOrDefault reads an integer environment variable, returning a fallback
// if unset, empty, or not a valid integer.
func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
