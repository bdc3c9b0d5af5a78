// Package report assembles the summary, health, wait-event and checklist
// reports from a snapshot directory. Every report writes its points to the
// session store and reads the others back to compute the display score.
package report

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dbwatch/ora-monitoring/component/reader"
	"github.com/dbwatch/ora-monitoring/component/score"
	"github.com/dbwatch/ora-monitoring/component/session"
	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/metrics"

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Report names accepted by Assembler.Run.
const (
	NameSummary   = "summary"
	NameHealth    = "health"
	NameWait      = "wait"
	NameChecklist = "checklist"
	NameAll       = "all"
)

var Names = []string{NameSummary, NameHealth, NameWait, NameChecklist}

type ScoreCard struct {
	// Points of this report alone.
	Points int64 `json:"points" yaml:"points"`
	// Sum of the four session scores.
	Total   int64         `json:"total" yaml:"total"`
	Display float64       `json:"display" yaml:"display"`
	Emoji   string        `json:"emoji" yaml:"emoji"`
	Rules   []score.Entry `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type Assembler struct {
	dir   string
	store session.Store
	now   func() time.Time
}

type Option func(a *Assembler)

// WithClock replaces time.Now, for the generated-on stamp and the
// synthesized trend.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

func NewAssembler(dir string, store session.Store, opts ...Option) *Assembler {
	a := &Assembler{dir: dir, store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) path(name string) string {
	return filepath.Join(a.dir, name)
}

func (a *Assembler) reportConfig() config.Report {
	return config.GetGlobalConfig().Report
}

// exists reports whether a snapshot file is present and counts it missing
// otherwise.
func (a *Assembler) exists(report, name string) bool {
	if reader.Exists(a.path(name)) {
		return true
	}
	metrics.MissingFilesCounter.WithLabelValues(report).Inc()
	return false
}

// finish stores the points under key and sums them with the other session
// scores. Store failures are logged; the report is still produced.
func (a *Assembler) finish(ctx context.Context, sessionID, key string, tally score.Tally) (card ScoreCard, scores map[string]int64) {
	if err := a.store.Put(ctx, sessionID, key, tally.Total); err != nil {
		metrics.SessionStoreErrorsCounter.WithLabelValues("put").Inc()
		log.Warn("failed to save report score",
			zap.String("session", sessionID),
			zap.String("key", key),
			zap.Error(err))
	}
	scores, err := a.store.Scores(ctx, sessionID)
	if err != nil {
		metrics.SessionStoreErrorsCounter.WithLabelValues("scores").Inc()
		log.Warn("failed to load session scores", zap.String("session", sessionID), zap.Error(err))
		scores = make(map[string]int64)
	}
	scores[key] = tally.Total

	card = ScoreCard{
		Points:  tally.Total,
		Total:   score.Sum(scores),
		Display: score.DisplayScore(score.Sum(scores)),
		Rules:   tally.Entries,
	}
	card.Emoji = score.Emoji(card.Display)
	return card, scores
}

func (a *Assembler) observe(report string, card ScoreCard, start time.Time) {
	cost := time.Since(start)
	metrics.ObserveReport(report, card.Points, card.Display, cost)
	log.Info("report computed",
		zap.String("report", report),
		zap.Int64("points", card.Points),
		zap.Int64("total", card.Total),
		zap.Float64("display", card.Display),
		zap.Duration("cost", cost))
}

type AllReports struct {
	Summary   *SummaryReport   `json:"summary" yaml:"summary"`
	Health    *HealthReport    `json:"health" yaml:"health"`
	Wait      *WaitReport      `json:"wait" yaml:"wait"`
	Checklist *ChecklistReport `json:"checklist" yaml:"checklist"`
}

// All computes the four reports in order.
func (a *Assembler) All(ctx context.Context, sessionID string) *AllReports {
	return &AllReports{
		Summary:   a.Summary(ctx, sessionID),
		Health:    a.Health(ctx, sessionID),
		Wait:      a.Wait(ctx, sessionID),
		Checklist: a.Checklist(ctx, sessionID),
	}
}

// Run computes the named report, or all of them for NameAll. ok is false for
// an unknown name.
func (a *Assembler) Run(ctx context.Context, sessionID, name string) (payload interface{}, ok bool) {
	switch name {
	case NameSummary:
		return a.Summary(ctx, sessionID), true
	case NameHealth:
		return a.Health(ctx, sessionID), true
	case NameWait:
		return a.Wait(ctx, sessionID), true
	case NameChecklist:
		return a.Checklist(ctx, sessionID), true
	case NameAll:
		return a.All(ctx, sessionID), true
	default:
		return nil, false
	}
}
