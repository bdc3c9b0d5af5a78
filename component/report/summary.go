package report

import (
	"context"
	"time"

	"github.com/dbwatch/ora-monitoring/component/reader"
	"github.com/dbwatch/ora-monitoring/component/score"
)

type Item struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type SummaryReport struct {
	Items       []Item    `json:"items" yaml:"items"`
	DBInfo      []Item    `json:"db_info" yaml:"db_info"`
	GeneratedOn time.Time `json:"generated_on" yaml:"generated_on"`
	Score       ScoreCard `json:"score" yaml:"score"`
}

func (a *Assembler) Summary(ctx context.Context, sessionID string) *SummaryReport {
	start := time.Now()
	r := &SummaryReport{GeneratedOn: a.now()}

	for _, f := range summaryFiles {
		a.exists(NameSummary, f.file)
		value := reader.ReadFirstValidCell(a.path(f.file))
		if value == "" {
			value = reader.NotAvailable
		}
		r.Items = append(r.Items, Item{Label: f.label, Value: value})
	}
	for i, label := range dbInfoLabels {
		r.DBInfo = append(r.DBInfo, Item{Label: label, Value: r.Items[i].Value})
	}

	var tally score.Tally
	tally.Add("summary items", score.SummaryPoints(len(r.Items)))

	var scores map[string]int64
	r.Score, scores = a.finish(ctx, sessionID, score.SummaryKey, tally)
	if score.AllZero(scores) {
		r.Score.Display = 0
		r.Score.Emoji = score.Emoji(0)
	}
	a.observe(NameSummary, r.Score, start)
	return r
}
