// Package main is the entry point for the campus portal server. It loads
// configuration, builds the logger, and hands off to internal/server, which
// owns the rest of the dependency graph.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/campus-portal/internal/config"
	"github.com/sakif/campus-portal/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The database lives in a subdirectory by default; create it like
	// `mkdir -p` so a fresh checkout runs without setup.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
