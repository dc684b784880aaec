package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active selection rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rs := cfg.RuleSet()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Directory patterns:")
		for _, p := range rs.Patterns() {
			fmt.Fprintf(out, "  %-12s %s\n", p.Name, p.Glob)
		}
		fmt.Fprintf(out, "File extensions: %s\n", strings.Join(rs.Extensions(), " "))
		fmt.Fprintf(out, "Always excluded: %s\n", strings.Join(rs.Metadata(), " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
