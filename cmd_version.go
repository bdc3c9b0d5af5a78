package main

import (
	"fmt"

	"github.com/dbwatch/ora-monitoring/utils/printer"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// nothing to open
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), printer.GetInfo())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
