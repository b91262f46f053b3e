// Package main is the entry point for the placement hub server.
//
// main stays minimal: read configuration, build the logger, make sure the
// data directory exists and start the server. Everything else lives in
// internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/placement-hub/internal/config"
	"github.com/sakif/placement-hub/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logger.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// mkdir -p for the database file's directory
	if cfg.Storage.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.Storage.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	if cfg.Bootstrap.StaffPassword == "" {
		logger.Warn("BOOTSTRAP_STAFF_PASSWORD not set, no staff account will be created on an empty database")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// blocks until Ctrl+C or SIGTERM
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
