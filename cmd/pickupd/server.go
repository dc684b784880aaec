package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vmunix/pickup/internal/config"
	"github.com/vmunix/pickup/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Daemon.LogLevel),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := server.NewRunner(cfg, logger)
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	logger.Info("daemon starting",
		"socket", cfg.Daemon.Socket,
		"renamer", cfg.Renamer.Command,
		"log_level", cfg.Daemon.LogLevel,
	)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		err = <-done
	case err = <-done:
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("daemon stopped")
	return nil
}
