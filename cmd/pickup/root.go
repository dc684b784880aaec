package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/pickup/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pickup",
	Short: "Hand completed torrents to the renaming tool",
	Long: `pickup - selection front end for the renaming tool

Scans a completed torrent's directory, picks the entries worth renaming
(media files and bonus-content directories), and emits them sorted, one
per line.

Run 'pickupd' to react to torrent completion events automatically.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("pickup {{.Version}}\n")
}

// loadConfig returns the file-based config when --config was given, the
// built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// newLogger builds the CLI logger on stderr so stdout stays clean for the
// selection output.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Daemon.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
