package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dbwatch/ora-monitoring/component/parser"
	"github.com/dbwatch/ora-monitoring/component/reader"
	"github.com/dbwatch/ora-monitoring/component/score"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	invalidOrMissing  = "Invalid or missing"
	fileNotFound      = "file not found"
	asmLabel          = "ASM Disk Groups"
	modificationLabel = "Modification Alert"
	managerLabel      = "Transaction Manager Status"
	unusableIndexes   = "Unusable Indexes"
)

// Check is a labelled health observation.
type Check struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type HealthReport struct {
	PassItems   []Check              `json:"pass_items" yaml:"pass_items"`
	WarnItems   []Check              `json:"warn_items" yaml:"warn_items"`
	Tablespaces []string             `json:"tablespaces" yaml:"tablespaces"`
	FreeMB      []float64            `json:"freemb" yaml:"freemb"`
	PointColors []string             `json:"point_colors" yaml:"point_colors"`
	Threshold   float64              `json:"threshold" yaml:"threshold"`
	DailyData   []parser.ArchivalDay `json:"daily_data" yaml:"daily_data"`
	GeneratedOn time.Time            `json:"generated_on" yaml:"generated_on"`
	Score       ScoreCard            `json:"score" yaml:"score"`
}

func (r *HealthReport) pass(label, value string) {
	r.PassItems = append(r.PassItems, Check{Label: label, Value: value})
}

func (r *HealthReport) warn(label, value string) {
	r.WarnItems = append(r.WarnItems, Check{Label: label, Value: value})
}

var countPrinter = message.NewPrinter(language.English)

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func (a *Assembler) Health(ctx context.Context, sessionID string) *HealthReport {
	start := time.Now()
	cfg := a.reportConfig()
	r := &HealthReport{
		PassItems:   []Check{},
		WarnItems:   []Check{},
		Tablespaces: []string{},
		FreeMB:      []float64{},
		PointColors: []string{},
		Threshold:   score.TablespaceColorCutover,
		DailyData:   []parser.ArchivalDay{},
		GeneratedOn: a.now(),
	}
	var tally score.Tally

	for _, f := range cacheRatioFiles {
		a.exists(NameHealth, f.file)
		ratio, ok := reader.ReadFirstRatio(a.path(f.file))
		switch {
		case !ok:
			r.warn(f.label, invalidOrMissing)
		case ratio < score.CacheRatioThreshold:
			r.warn(f.label, formatPct(ratio))
		default:
			r.pass(f.label, formatPct(ratio))
			tally.Add(f.label, score.CacheRatioPoints(ratio))
		}
	}

	for _, f := range objectCountFiles {
		a.objectCount(r, &tally, f.label, f.file, score.ObjectCountThreshold)
	}
	a.objectCount(r, &tally, unusableIndexes, UnusableIndexesFile, 0)

	a.asmUsage(r, &tally)
	a.mostModified(r)
	a.transactionManagers(r, &tally)

	if a.exists(NameHealth, TablespaceFile) {
		for _, ts := range parser.ParseTablespaces(reader.ReadLines(a.path(TablespaceFile))) {
			r.Tablespaces = append(r.Tablespaces, ts.Name)
			r.FreeMB = append(r.FreeMB, ts.FreeMB)
			r.PointColors = append(r.PointColors, score.TablespaceColor(ts.FreeMB))
			tally.Add("tablespace "+ts.Name, score.TablespacePoints(ts.FreeMB))
		}
	}

	if a.exists(NameHealth, ArchivalFile) {
		r.DailyData = parser.ParseArchival(reader.ReadLines(a.path(ArchivalFile)), cfg.ArchivalYearPrefix)
		for _, day := range r.DailyData {
			tally.Add("archival "+day.Date, score.ArchivalDayPoints(day.Total()))
		}
	}

	r.Score, _ = a.finish(ctx, sessionID, score.HealthKey, tally)
	a.observe(NameHealth, r.Score, start)
	return r
}

func (a *Assembler) objectCount(r *HealthReport, tally *score.Tally, label, file string, max int64) {
	a.exists(NameHealth, file)
	value := reader.ReadFirstValidCell(a.path(file))
	count, err := strconv.ParseInt(value, 10, 64)
	switch {
	case err != nil:
		r.warn(label, invalidOrMissing)
	case count > max:
		r.warn(label, value)
	default:
		r.pass(label, value)
		tally.Add(label, score.ObjectCountPoints(count, max))
	}
}

func (a *Assembler) asmUsage(r *HealthReport, tally *score.Tally) {
	if !a.exists(NameHealth, ASMDiskGroupFile) {
		r.warn(asmLabel, fileNotFound)
		return
	}
	for _, u := range parser.ParseASMUsage(reader.ReadLines(a.path(ASMDiskGroupFile))) {
		label := asmLabel + " - " + u.Group
		switch {
		case u.Problem != parser.ProblemNone:
			r.warn(label, string(u.Problem))
		case u.UsedPct > score.ASMUsageThreshold:
			r.warn(label, formatPct(u.UsedPct))
		default:
			r.pass(label, formatPct(u.UsedPct))
			tally.Add(label, score.ASMPoints(u.UsedPct))
		}
	}
}

// mostModified reports every row as a warning.
func (a *Assembler) mostModified(r *HealthReport) {
	if !a.exists(NameHealth, MostModifiedTableFile) {
		r.warn(modificationLabel, MostModifiedTableFile+" "+fileNotFound)
		return
	}
	for _, t := range parser.ParseModifiedTables(reader.ReadLines(a.path(MostModifiedTableFile))) {
		switch t.Problem {
		case parser.ProblemInvalidRow:
			r.warn(modificationLabel, "Invalid row format in "+MostModifiedTableFile)
		case parser.ProblemInvalidNumber:
			r.warn(modificationLabel, "Invalid number format for "+t.FullName())
		default:
			r.warn(modificationLabel, countPrinter.Sprintf(
				"Most Modified Table: %s (Insert: %d , Update: %d , Delete: %d , Total: %d)",
				t.FullName(), t.Inserts, t.Updates, t.Deletes, t.Total))
		}
	}
}

func (a *Assembler) transactionManagers(r *HealthReport, tally *score.Tally) {
	if !a.exists(NameHealth, TransactionManagerFile) {
		r.warn(managerLabel, fileNotFound)
		return
	}
	for _, m := range parser.ParseTransactionManagers(reader.ReadLines(a.path(TransactionManagerFile))) {
		switch m.Status {
		case parser.ManagerInactive:
			r.warn(m.Label, "Inactive")
		case parser.ManagerActive:
			r.pass(m.Label, "Active")
			tally.Add(m.Label, score.TransactionManagerPoints(m.Status))
		default:
			r.warn(m.Label, "Unknown status: "+m.Status)
		}
	}
}
