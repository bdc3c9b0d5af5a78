package main

import (
	"fmt"
	"time"

	"github.com/dbwatch/ora-monitoring/component/score"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage report sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Print a fresh session id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), uuid.New().String())
		return err
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the scores of --session, or list sessions with --all",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()
		if sessionShowAll {
			sessions, err := env.store.Sessions(ctx)
			if err != nil {
				return err
			}
			t := newTable(w, "Sessions", table.Row{"Session", "Updated At"})
			for _, s := range sessions {
				t.AppendRow(table.Row{s.ID, time.Unix(s.UpdatedAtTs, 0).Format(time.RFC3339)})
			}
			t.Render()
			return nil
		}

		scores, err := env.store.Scores(ctx, sessionID)
		if err != nil {
			return err
		}
		t := newTable(w, "Session "+sessionID, table.Row{"Report", "Score"})
		for _, k := range score.Keys {
			t.AppendRow(table.Row{k, scores[k]})
		}
		total := score.Sum(scores)
		t.AppendFooter(table.Row{"Total", total})
		t.Render()
		display := score.DisplayScore(total)
		scoreColor(display).Fprintf(w, "Display score: %.2f %s\n", display, score.Emoji(display))
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the scores of --session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.store.Reset(cmd.Context(), sessionID); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "session %s reset\n", sessionID)
		return err
	},
}

var sessionShowAll bool

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd, sessionShowCmd, sessionResetCmd)
	sessionShowCmd.Flags().BoolVar(&sessionShowAll, "all", false, "list all sessions")
}
