package main

import (
	"strings"

	"github.com/dbwatch/ora-monitoring/component/report"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <summary|health|wait|checklist|all>",
	Short: "Compute a report and add its score to the session",
	Args:  cobra.ExactArgs(1),
	ValidArgs: []string{
		report.NameSummary, report.NameHealth, report.NameWait, report.NameChecklist, report.NameAll,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, ok := env.assembler().Run(cmd.Context(), sessionID, args[0])
		if !ok {
			return errors.Errorf("unknown report %q, want one of %s or %s",
				args[0], strings.Join(report.Names, ", "), report.NameAll)
		}
		return writeOutput(cmd.OutOrStdout(), reportOutput, payload)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", outputTable, "output format: json, yaml or table")
}
