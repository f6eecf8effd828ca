package main

import (
	"log/slog"
	"os"

	"finman/internal/cli"
	"finman/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)

	level, err := cfg.SlogLevel()
	if err == nil && level != slog.LevelInfo {
		logger = cli.SetupLogger(level)
	}

	st := cli.InitStore(cfg, logger)

	app := cli.NewApp(cfg, st, logger, os.Stdin, os.Stdout)
	if err := app.Run(); err != nil {
		logger.Error("application failed", log.FieldError, err)
		os.Exit(1)
	}
}
