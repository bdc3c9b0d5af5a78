package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dbwatch/ora-monitoring/component/parser"
	"github.com/dbwatch/ora-monitoring/component/report"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

var outputFormats = []string{outputJSON, outputYAML, outputTable}

func writeOutput(w io.Writer, format string, payload interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(payload), "failed to encode json")
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return enc.Close()
	case outputTable:
		return renderTables(w, payload)
	default:
		return errors.Errorf("unknown output format %q, want one of %s", format, strings.Join(outputFormats, ", "))
	}
}

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.Style().Title.Align = text.AlignCenter
	t.AppendHeader(header)
	return t
}

func renderTables(w io.Writer, payload interface{}) error {
	switch r := payload.(type) {
	case *report.SummaryReport:
		renderSummary(w, r)
	case *report.HealthReport:
		renderHealth(w, r)
	case *report.WaitReport:
		renderWait(w, r)
	case *report.ChecklistReport:
		renderChecklist(w, r)
	case *report.AllReports:
		renderSummary(w, r.Summary)
		renderHealth(w, r.Health)
		renderWait(w, r.Wait)
		renderChecklist(w, r.Checklist)
	default:
		return errors.Errorf("no table layout for %T", payload)
	}
	return nil
}

func scoreColor(display float64) *color.Color {
	switch {
	case display >= 70:
		return color.New(color.FgGreen, color.Bold)
	case display >= 40:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func renderScore(w io.Writer, card report.ScoreCard) {
	scoreColor(card.Display).Fprintf(w, "Score: %.2f %s (points %d, session total %d)\n\n",
		card.Display, card.Emoji, card.Points, card.Total)
}

func renderSummary(w io.Writer, r *report.SummaryReport) {
	t := newTable(w, "Summary", table.Row{"Item", "Value"})
	for _, item := range r.Items {
		t.AppendRow(table.Row{item.Label, item.Value})
	}
	t.Render()
	renderScore(w, r.Score)
}

func renderHealth(w io.Writer, r *report.HealthReport) {
	t := newTable(w, "Health Check", table.Row{"Status", "Check", "Value"})
	for _, c := range r.PassItems {
		t.AppendRow(table.Row{"PASS", c.Label, c.Value})
	}
	for _, c := range r.WarnItems {
		t.AppendRow(table.Row{"WARN", c.Label, c.Value})
	}
	t.Render()

	if len(r.Tablespaces) > 0 {
		t = newTable(w, "Tablespaces", table.Row{"Tablespace", "Free MB"})
		for i, name := range r.Tablespaces {
			t.AppendRow(table.Row{name, r.FreeMB[i]})
		}
		t.Render()
	}
	if len(r.DailyData) > 0 {
		t = newTable(w, "Archivals", table.Row{"Date", "Total"})
		for _, day := range r.DailyData {
			t.AppendRow(table.Row{day.Date, day.Total()})
		}
		t.Render()
	}
	renderScore(w, r.Score)
}

func renderWait(w io.Writer, r *report.WaitReport) {
	t := newTable(w, "Wait Events", table.Row{"Event", "Count", "Total ms", "Avg ms", "%"})
	if len(r.WaitEvents) == 0 {
		for i, label := range r.WaitEventLabels {
			t.AppendRow(table.Row{label, r.WaitEventCounts[i], "", "", ""})
		}
	}
	for _, d := range r.WaitEvents {
		t.AppendRow(table.Row{d.Event, d.Count, d.TotalTimeMs, d.AvgTimeMs, d.Percentage})
	}
	t.Render()

	if r.GenerateWaitTrend {
		title := "Wait Trend"
		if r.TrendSynthesized {
			title += " (synthesized)"
		}
		t = newTable(w, title, table.Row{"Time", "Waits"})
		for i, label := range r.TrendLabels {
			t.AppendRow(table.Row{label, r.TrendCounts[i]})
		}
		t.Render()
	}
	if r.GenerateBlockingGraph {
		t = newTable(w, "Blocking Sessions", table.Row{"SID", "Blocked"})
		for i, label := range r.BlockingLabels {
			t.AppendRow(table.Row{label, r.BlockingCounts[i]})
		}
		t.Render()
	}
	fmt.Fprintf(w, "Blocking graph: %d sessions, %d edges\n", len(r.BlockingGraph.Nodes), len(r.BlockingGraph.Edges))
	fmt.Fprintf(w, "Locking graph: %d sessions, %d edges\n", len(r.LockingGraph.Nodes), len(r.LockingGraph.Edges))
	renderScore(w, r.Score)
}

func renderQueries(w io.Writer, title string, queries []parser.QueryRecord, metrics ...string) {
	header := table.Row{"SQL ID", "Owner"}
	for _, m := range metrics {
		header = append(header, m)
	}
	header = append(header, "SQL Text")
	t := newTable(w, title, header)
	t.SetColumnConfigs([]table.ColumnConfig{{Name: "SQL Text", WidthMax: 60}})
	for _, q := range queries {
		row := table.Row{q.SQLID, q.Owner}
		for _, m := range metrics {
			row = append(row, q.Metric(m))
		}
		row = append(row, q.SQLText)
		t.AppendRow(row)
	}
	t.Render()
}

func renderChecklist(w io.Writer, r *report.ChecklistReport) {
	t := newTable(w, "Fragmented Tables", table.Row{"Owner", "Table", "Blocks", "Rows", "Avg Row Len", "Unused MB"})
	for _, f := range r.FragmentedTables {
		t.AppendRow(table.Row{f.Owner, f.TableName, f.Blocks, f.NumRows, f.AvgRowLen, f.ApproxUnusedMB})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Score", r.FragmentationScore})
	t.Render()

	renderQueries(w, "Top CPU Queries", r.CPUQueries,
		parser.MetricCPUTime, parser.MetricElapsedTime, parser.MetricRowsProcessed)
	renderQueries(w, "Top IO Queries", r.IOQueries,
		parser.MetricExecutions, parser.MetricDiskReads, parser.MetricBufferGets)

	t = newTable(w, "DB Links", table.Row{"Owner", "DB Link", "User", "Host", "Created", "Valid"})
	for _, l := range r.DBLinks {
		t.AppendRow(table.Row{l.Owner, l.DBLinkName, l.Username, l.Host, l.Created, l.Valid})
	}
	t.Render()
	renderScore(w, r.Score)
}
