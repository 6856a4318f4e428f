// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for databases and backups, always absolute
	Port     int
	DevMode  bool
	LogLevel string

	HistoryRange    string // Yahoo price history range, e.g. "1y"
	BenchmarkTicker string // Benchmark for beta, empty disables it
	VendorBaseURL   string // Overrides the market data endpoint, empty uses the default

	RefreshSchedule string // Cron schedule for the tracked-ticker refresh
	BackupSchedule  string // Cron schedule for the nightly backup
	RetentionDays   int    // Backup and history retention window

	// S3-compatible object storage for cloud backups. Backups stay local
	// when the bucket is empty.
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads configuration from environment variables, with .env support
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("EQUITYLENS_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HistoryRange:    getEnv("HISTORY_RANGE", "1y"),
		BenchmarkTicker: getEnv("BENCHMARK_TICKER", "^GSPC"),
		VendorBaseURL:   getEnv("VENDOR_BASE_URL", ""),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 */4 * * *"),
		BackupSchedule:  getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"),
		RetentionDays:   getEnvAsInt("RETENTION_DAYS", 30),

		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CloudBackupEnabled reports whether object storage credentials are set
func (c *Config) CloudBackupEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention days cannot be negative: %d", c.RetentionDays)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
