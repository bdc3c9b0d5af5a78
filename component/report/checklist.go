package report

import (
	"context"
	"time"

	"github.com/dbwatch/ora-monitoring/component/parser"
	"github.com/dbwatch/ora-monitoring/component/reader"
	"github.com/dbwatch/ora-monitoring/component/score"
)

type ChecklistReport struct {
	FragmentedTables   []parser.FragmentedTable `json:"fragmented_tables" yaml:"fragmented_tables"`
	FragmentationScore float64                  `json:"fragmentation_score" yaml:"fragmentation_score"`
	CPUQueries         []parser.QueryRecord     `json:"cpu_queries" yaml:"cpu_queries"`
	CPUTotal           float64                  `json:"cpu_total" yaml:"cpu_total"`
	IOQueries          []parser.QueryRecord     `json:"io_queries" yaml:"io_queries"`
	IOTotal            float64                  `json:"io_total" yaml:"io_total"`
	DBLinks            []parser.DBLink          `json:"dblinks" yaml:"dblinks"`
	GeneratedOn        time.Time                `json:"generated_on" yaml:"generated_on"`
	Score              ScoreCard                `json:"score" yaml:"score"`
}

func (a *Assembler) lines(report, file string) []string {
	if !a.exists(report, file) {
		return nil
	}
	return reader.ReadDataLines(a.path(file))
}

func (a *Assembler) Checklist(ctx context.Context, sessionID string) *ChecklistReport {
	start := time.Now()
	cfg := a.reportConfig()
	r := &ChecklistReport{
		DBLinks:     []parser.DBLink{},
		GeneratedOn: a.now(),
	}
	var tally score.Tally

	r.FragmentedTables = parser.ParseFragmentedTables(a.lines(NameChecklist, FragmentedTablesFile))
	r.FragmentationScore = score.FragmentationScore(r.FragmentedTables)
	tally.Add("fragmentation", score.FragmentationPoints(r.FragmentedTables))

	// every parsed CPU query counts towards the total, only the top ones are shown
	cpu := parser.ParseQueries(a.lines(NameChecklist, CPUQueriesFile), parser.CPULayout)
	r.CPUTotal = score.CPUTotal(cpu)
	r.CPUQueries = parser.TopQueries(cpu, parser.MetricCPUTime, cfg.TopN)
	tally.Add("cpu time", score.CPUPoints(r.CPUTotal))

	io := parser.ParseQueries(a.lines(NameChecklist, IOQueriesFile), parser.IOLayout)
	r.IOQueries = parser.TopQueries(io, parser.MetricDiskReads, cfg.TopN)
	r.IOTotal = score.IOTotal(r.IOQueries)
	tally.Add("io volume", score.IOPoints(r.IOTotal))

	if links := parser.ParseDBLinks(a.lines(NameChecklist, DBLinksFile)); links != nil {
		r.DBLinks = links
	}
	tally.Add("dblinks", score.DBLinkPoints(r.DBLinks))

	if r.CPUQueries == nil {
		r.CPUQueries = []parser.QueryRecord{}
	}
	if r.IOQueries == nil {
		r.IOQueries = []parser.QueryRecord{}
	}

	r.Score, _ = a.finish(ctx, sessionID, score.ChecklistKey, tally)
	a.observe(NameChecklist, r.Score, start)
	return r
}
