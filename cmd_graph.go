package main

import (
	"os"

	"github.com/dbwatch/ora-monitoring/component/relation"
	"github.com/dbwatch/ora-monitoring/component/report"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	graphFormatDOT = "dot"
	graphFormatSVG = "svg"
)

var (
	graphFormat string
	graphOut    string
)

var graphCmd = &cobra.Command{
	Use:       "graph <blocking|locking>",
	Short:     "Render the blocking or locking session graph",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{report.GraphBlocking, report.GraphLocking},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, ok := env.assembler().Graph(args[0])
		if !ok {
			return errors.Errorf("unknown graph %q, want %s or %s", args[0], report.GraphBlocking, report.GraphLocking)
		}
		data, err := renderGraph(g, args[0], graphFormat)
		if err != nil {
			return err
		}
		if graphOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return errors.Wrapf(os.WriteFile(graphOut, data, 0o644), "failed to write graph to %s", graphOut)
	},
}

func renderGraph(g relation.Graph, name, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case graphFormatDOT:
		data, err = g.DOT(name)
	case graphFormatSVG:
		data, err = g.SVG(name)
	default:
		return nil, errors.Errorf("unknown graph format %q, want %s or %s", format, graphFormatSVG, graphFormatDOT)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render %s graph", name)
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphFormat, "format", graphFormatSVG, "graph format: svg or dot")
	graphCmd.Flags().StringVar(&graphOut, "out", "", "write the graph to this file instead of stdout")
}
