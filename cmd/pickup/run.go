package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/pickup/internal/dispatch"
	"github.com/vmunix/pickup/internal/events"
	"github.com/vmunix/pickup/internal/selector"
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Scan a completed torrent and pipe the selection into the renamer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateRenamer(); err != nil {
			return err
		}

		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		sel := selector.New(cfg.RuleSet(), logger)
		renamer := dispatch.NewRenamer(cfg.Renamer.Command, cfg.Renamer.Args, logger)

		d := dispatch.New(events.NewBus(logger), sel, renamer, logger)
		return d.Dispatch(cmd.Context(), events.NewTorrentFinished(filepath.Base(root), root))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
