package main

import (
	"log/slog"
	"os"

	"github.com/c360/scanstream/config"
	"github.com/c360/scanstream/scanlog"
)

func setupLogger(level, format string) *slog.Logger {
	logger := scanlog.New(config.LoggingConfig{
		Level:  level,
		Format: format,
	})

	return logger.With(
		"service", appName,
		"version", Version,
		"pid", os.Getpid(),
	)
}
