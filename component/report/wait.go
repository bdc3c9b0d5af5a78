package report

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/dbwatch/ora-monitoring/component/parser"
	"github.com/dbwatch/ora-monitoring/component/reader"
	"github.com/dbwatch/ora-monitoring/component/relation"
	"github.com/dbwatch/ora-monitoring/component/score"
	"github.com/dbwatch/ora-monitoring/config"
)

const healthyLabel = "System Healthy"

type WaitReport struct {
	WaitEventLabels []string                   `json:"wait_event_labels" yaml:"wait_event_labels"`
	WaitEventCounts []int64                    `json:"wait_event_counts" yaml:"wait_event_counts"`
	WaitEvents      []relation.WaitEventDetail `json:"wait_events" yaml:"wait_events"`

	TrendLabels       []string `json:"trend_labels" yaml:"trend_labels"`
	TrendCounts       []int64  `json:"trend_counts" yaml:"trend_counts"`
	GenerateWaitTrend bool     `json:"generate_wait_trend" yaml:"generate_wait_trend"`
	TrendSynthesized  bool     `json:"trend_synthesized" yaml:"trend_synthesized"`

	BlockingLabels        []string `json:"blocking_labels" yaml:"blocking_labels"`
	BlockingCounts        []int64  `json:"blocking_counts" yaml:"blocking_counts"`
	GenerateBlockingGraph bool     `json:"generate_blocking_graph" yaml:"generate_blocking_graph"`

	BlockingGraph    relation.Graph `json:"blocking_graph" yaml:"blocking_graph"`
	HasBlockingGraph bool           `json:"has_blocking_graph" yaml:"has_blocking_graph"`
	LockingGraph     relation.Graph `json:"locking_graph" yaml:"locking_graph"`
	HasLockingGraph  bool           `json:"has_locking_graph" yaml:"has_locking_graph"`

	GeneratedOn time.Time `json:"generated_on" yaml:"generated_on"`
	Score       ScoreCard `json:"score" yaml:"score"`
}

func (a *Assembler) readAll(report string, files []string) []string {
	var lines []string
	for _, f := range files {
		if !a.exists(report, f) {
			continue
		}
		lines = append(lines, reader.ReadDataLines(a.path(f))...)
	}
	return lines
}

func (a *Assembler) Wait(ctx context.Context, sessionID string) *WaitReport {
	start := time.Now()
	cfg := a.reportConfig()
	r := &WaitReport{
		WaitEventLabels: []string{},
		WaitEventCounts: []int64{},
		WaitEvents:      []relation.WaitEventDetail{},
		TrendLabels:     []string{},
		TrendCounts:     []int64{},
		BlockingLabels:  []string{},
		BlockingCounts:  []int64{},
		GeneratedOn:     a.now(),
	}
	var tally score.Tally

	// wait events
	waits := relation.NewCounter()
	relation.CountWaitEvents(a.readAll(NameWait, waitEventFiles), waits)
	topWaits := waits.MostCommon(cfg.TopN)
	if waits.Len() == 0 {
		r.WaitEventLabels = append(r.WaitEventLabels, healthyLabel)
		r.WaitEventCounts = append(r.WaitEventCounts, 1)
		tally.Add("no wait events", score.WaitVolumePoints(0, false))
	} else {
		for _, c := range topWaits {
			r.WaitEventLabels = append(r.WaitEventLabels, c.Key)
			r.WaitEventCounts = append(r.WaitEventCounts, c.Count)
		}
		tally.Add("wait event volume", score.WaitVolumePoints(relation.SumCounts(topWaits), true))

		blockingRows := reader.ReadDataLines(a.path(BlockingSessionsFile))
		for _, d := range relation.WaitEventDetails(waits, topWaits, blockingRows) {
			d.TotalTimeMs = score.Round2(d.TotalTimeMs)
			d.AvgTimeMs = score.Round2(d.AvgTimeMs)
			d.Percentage = score.Round2(d.Percentage)
			r.WaitEvents = append(r.WaitEvents, d)
		}
	}

	// trend
	if points, ok := a.readTrend(); ok {
		r.setTrend(points)
		tally.Add("wait trend", score.TrendFromFile)
	} else if cfg.SynthesizeTrend && relation.SumCounts(topWaits) > 0 {
		r.setTrend(SynthesizeTrend(a.now(), relation.SumCounts(topWaits), newTrendRand(cfg)))
		r.TrendSynthesized = true
		tally.Add("synthesized wait trend", score.TrendSynthesized)
	}

	// blocking sessions
	blocking := relation.NewCounter()
	blockingLines := a.readAll(NameWait, blockingFiles)
	relation.CountBlockingSessions(blockingLines, blocking)
	topBlocking := blocking.MostCommon(cfg.TopN)
	for _, c := range topBlocking {
		r.BlockingLabels = append(r.BlockingLabels, c.Key)
		r.BlockingCounts = append(r.BlockingCounts, c.Count)
	}
	r.GenerateBlockingGraph = blocking.Len() > 0
	tally.Add("blocking volume", score.BlockingVolumePoints(relation.SumCounts(topBlocking), blocking.Len() > 0))

	// blocking graph
	blockingRel, hasBlockingFile := a.blockingRelations(blockingLines)
	if !hasBlockingFile {
		tally.Add("no "+BlockingFile, score.MissingBlockingFile)
	}
	r.BlockingGraph = blockingRel.Graph(cfg.GraphMaxNodes, cfg.GraphMaxEdges)
	r.HasBlockingGraph = blockingRel.Len() > 0

	// locking graph
	lockingRel := a.lockingRelations()
	r.LockingGraph = lockingRel.Graph(cfg.GraphMaxNodes, cfg.GraphMaxEdges)
	r.HasLockingGraph = lockingRel.Len() > 0
	tally.Add("locking", score.LockingPoints(r.HasLockingGraph))

	r.Score, _ = a.finish(ctx, sessionID, score.WaitKey, tally)
	if cfg.ClampWaitScore {
		r.Score.Display = score.Clamp(r.Score.Display)
	}
	r.Score.Emoji = score.WaitEmoji(r.Score.Display)
	a.observe(NameWait, r.Score, start)
	return r
}

// Graph names accepted by Assembler.Graph.
const (
	GraphBlocking = "blocking"
	GraphLocking  = "locking"
)

// blockingRelations extracts blocker pairs from blocking.csv and from
// blockingLines. hasFile is false when blocking.csv is absent.
func (a *Assembler) blockingRelations(blockingLines []string) (rel *relation.Relations, hasFile bool) {
	rel = relation.NewRelations()
	if hasFile = a.exists(NameWait, BlockingFile); hasFile {
		relation.BlockingExtractor.Extract(reader.ReadDataLines(a.path(BlockingFile)), rel)
	}
	relation.BlockingExtractor.Extract(blockingLines, rel)
	return rel, hasFile
}

func (a *Assembler) lockingRelations() *relation.Relations {
	rel := relation.NewRelations()
	relation.LockingExtractor.Extract(a.readAll(NameWait, lockingFiles), rel)
	return rel
}

// Graph builds the named session graph the way the wait report does, without
// touching the session store. ok is false for an unknown name.
func (a *Assembler) Graph(name string) (g relation.Graph, ok bool) {
	cfg := a.reportConfig()
	var rel *relation.Relations
	switch name {
	case GraphBlocking:
		rel, _ = a.blockingRelations(a.readAll(NameWait, blockingFiles))
	case GraphLocking:
		rel = a.lockingRelations()
	default:
		return relation.Graph{}, false
	}
	return rel.Graph(cfg.GraphMaxNodes, cfg.GraphMaxEdges), true
}

// readTrend returns the points of the first trend file holding any.
func (a *Assembler) readTrend() ([]parser.TrendPoint, bool) {
	for _, f := range trendFiles {
		if !a.exists(NameWait, f) {
			continue
		}
		if points := parser.ParseTrend(reader.ReadDataLines(a.path(f))); len(points) > 0 {
			return points, true
		}
	}
	return nil, false
}

func (r *WaitReport) setTrend(points []parser.TrendPoint) {
	r.GenerateWaitTrend = true
	for _, p := range points {
		r.TrendLabels = append(r.TrendLabels, p.Label)
		r.TrendCounts = append(r.TrendCounts, p.Count)
	}
}

func newTrendRand(cfg config.Report) *rand.Rand {
	seed := cfg.TrendSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// SynthesizeTrend fabricates 24 hourly points ending at now, spreading
// totalWaits with business hours weighted highest. Labels are "HH:00",
// ordered by label.
func SynthesizeTrend(now time.Time, totalWaits int64, rnd *rand.Rand) []parser.TrendPoint {
	counts := make(map[string]int64, 24)
	for offset := 0; offset < 24; offset++ {
		hour := ((now.Hour()-offset)%24 + 24) % 24
		var multiplier float64
		switch {
		case hour >= 8 && hour <= 18:
			multiplier = 1.0 + 0.3*rnd.Float64()
		case hour >= 19 || hour == 6 || hour == 7:
			multiplier = 0.6 + 0.3*rnd.Float64()
		default:
			multiplier = 0.2 + 0.2*rnd.Float64()
		}
		count := int64(float64(totalWaits) * multiplier / 24)
		if count < 1 {
			count = 1
		}
		counts[fmt.Sprintf("%02d:00", hour)] = count
	}

	points := make([]parser.TrendPoint, 0, len(counts))
	for label, count := range counts {
		points = append(points, parser.TrendPoint{Label: label, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})
	return points
}
