package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/pickup/internal/selector"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "List the entries a completed torrent hands to the renamer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sel := selector.New(cfg.RuleSet(), newLogger(cfg))
		return sel.Run(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
