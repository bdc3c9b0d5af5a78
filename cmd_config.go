package main

import (
	"github.com/dbwatch/ora-monitoring/config"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or modify the effective config",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config in toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetGlobalConfig()
		return errors.Wrap(toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg), "failed to encode config")
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <json>",
	Short: `Modify and persist report options, e.g. '{"report": {"top_n": 5}}'`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.db == nil {
			return errors.Errorf("config set needs the %s or %s storage backend", config.DocDBBackendSQLite, config.DocDBBackendGenji)
		}
		if err := config.ModifyConfig(cmd.Context(), env.db, []byte(args[0])); err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(config.GetGlobalConfig().Report)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
