package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// DataDir holds the four JSON documents (users, transactions, bills, budgets).
	DataDir string

	// UpcomingDays is the default horizon for the upcoming-bills query.
	UpcomingDays int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

func Load() *Config {
	return &Config{
		DataDir:      getEnv("FINMAN_DATA_DIR", "./data"),
		UpcomingDays: getEnvInt("FINMAN_UPCOMING_DAYS", 7),
		LogLevel:     getEnv("FINMAN_LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	}

	if c.UpcomingDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid upcoming horizon %d: must be at least 1 day", c.UpcomingDays))
	} else if c.UpcomingDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid upcoming horizon %d: must be at most 365 days", c.UpcomingDays))
	}

	if _, err := c.SlogLevel(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level name onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
