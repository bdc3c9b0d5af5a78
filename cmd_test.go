package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dbwatch/ora-monitoring/component/relation"
	"github.com/dbwatch/ora-monitoring/component/report"
	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/utils/testutil"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestOverrideConfig(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(nmCSVDir, "", "")
	fs.String(nmLogLevel, "", "")
	fs.String(nmStorageBackend, "", "")
	fs.String(nmStoragePath, "", "")
	require.NoError(t, fs.Parse([]string{"--csv-dir", "snap", "--storage.docdb-backend", "memory"}))

	cfg := config.GetDefaultConfig()
	overrideConfig(fs)(&cfg)
	require.Equal(t, "snap", cfg.CSVDir)
	require.Equal(t, config.DocDBBackendMemory, cfg.Storage.DocDBBackend)
	// untouched flags keep the defaults
	require.Equal(t, config.GetDefaultConfig().Log.Level, cfg.Log.Level)
	require.Equal(t, config.GetDefaultConfig().Storage.Path, cfg.Storage.Path)
}

func TestWriteOutput(t *testing.T) {
	r := &report.SummaryReport{
		Items: []report.Item{{Label: "Db Name", Value: "ORCL"}},
		Score: report.ScoreCard{Points: 15, Total: 15, Display: 1.5},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, writeOutput(buf, outputJSON, r))
	var decoded report.SummaryReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, r.Items, decoded.Items)
	require.Equal(t, r.Score, decoded.Score)

	buf.Reset()
	require.NoError(t, writeOutput(buf, outputYAML, r))
	require.Contains(t, buf.String(), "points: 15")

	buf.Reset()
	require.NoError(t, writeOutput(buf, outputTable, r))
	require.Contains(t, buf.String(), "ORCL")
	require.Contains(t, buf.String(), "Score: 1.50")

	require.Error(t, writeOutput(buf, "xml", r))
	require.Error(t, writeOutput(buf, outputTable, "not a report"))
}

func TestRenderGraph(t *testing.T) {
	g := relation.Graph{
		Nodes: []relation.Node{{ID: 1, Label: "SID 1"}, {ID: 2, Label: "SID 2"}},
		Edges: []relation.GraphEdge{{From: 1, To: 2}},
	}
	dot, err := renderGraph(g, "blocking", graphFormatDOT)
	require.NoError(t, err)
	require.Contains(t, string(dot), "1 -> 2")

	_, err = renderGraph(g, "blocking", "png")
	require.Error(t, err)
}

func execute(t *testing.T, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, env.close())
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	defer config.StoreGlobalConfig(config.GetDefaultConfig())

	csvDir := testutil.WriteCSVDir(t, map[string]string{
		"V_DB_NAME.csv":       "ORCL\n",
		report.TablespaceFile: "SYSTEM 500 100\n",
		report.BlockingFile:   "SID 1 is blocking status ACTIVE blocking 2\n",
	})
	storeDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "ora.prom")
	common := []string{
		"--csv-dir", csvDir,
		"--storage.path", storeDir,
		"--log.level", "WARN",
		"--metrics.textfile", metricsFile,
		"--session", "s1",
	}
	run := func(args ...string) string {
		out, err := execute(t, append(append([]string{}, common...), args...)...)
		require.NoError(t, err)
		return out
	}
	totalOf := func(out string) int64 {
		var r struct {
			Score report.ScoreCard `json:"score"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		return r.Score.Total
	}

	require.Equal(t, int64(15), totalOf(run("report", "summary", "-o", "json")))
	// scores persist across runs
	require.Equal(t, int64(25), totalOf(run("report", "health", "-o", "json")))

	out := run("session", "show")
	require.Contains(t, out, "25")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "ora_monitoring_report_runs_total")

	out = run("graph", "blocking", "--format", "dot")
	require.True(t, strings.HasPrefix(out, "digraph blocking {"))

	run("session", "reset")
	require.Equal(t, int64(15), totalOf(run("report", "summary", "-o", "json")))

	out = run("config", "set", `{"report": {"top_n": 5}}`)
	require.Contains(t, out, "top-n = 5")
	out = run("config", "show")
	require.Contains(t, out, "top-n = 5")

	_, err = execute(t, append(append([]string{}, common...), "report", "bogus")...)
	require.Error(t, err)

	out, err = execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "Git Commit Hash")
}
