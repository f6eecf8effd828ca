// Package cli holds the interactive menu application and the common
// initialization shared by the commands under cmd/.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finman/internal/config"
	"finman/internal/log"
	"finman/internal/store"
)

// SetupLogger initializes structured logging at the given level and installs
// it as the default logger.
func SetupLogger(level slog.Level) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore constructs the JSON document store rooted at the configured data
// directory.
func InitStore(cfg *config.Config, logger *log.Logger) *store.Store {
	return store.New(cfg.DataDir, logger.WithComponent(log.ComponentStore))
}
