// Package score holds the point rules of every report and the normalisation
// of the summed session scores into a 0-100 display value.
package score

import (
	"github.com/shopspring/decimal"
)

// Session keys, one per report.
const (
	SummaryKey   = "summary_score"
	HealthKey    = "health_score"
	WaitKey      = "wait_score"
	ChecklistKey = "checklist_score"
)

var Keys = []string{SummaryKey, HealthKey, WaitKey, ChecklistKey}

type Entry struct {
	Rule   string `json:"rule" yaml:"rule"`
	Points int64  `json:"points" yaml:"points"`
}

// Tally accumulates the points of one report run. Zero-point rules are not
// recorded.
type Tally struct {
	Total   int64   `json:"total" yaml:"total"`
	Entries []Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func (t *Tally) Add(rule string, points int64) {
	if points == 0 {
		return
	}
	t.Total += points
	t.Entries = append(t.Entries, Entry{Rule: rule, Points: points})
}

// Sum adds up the given session scores. Missing keys count as zero.
func Sum(scores map[string]int64) (total int64) {
	for _, k := range Keys {
		total += scores[k]
	}
	return
}

// AllZero reports whether every session score is zero or missing.
func AllZero(scores map[string]int64) bool {
	for _, k := range Keys {
		if scores[k] != 0 {
			return false
		}
	}
	return true
}

var (
	tierBoundary = decimal.NewFromInt(1000)
	lowDivisor   = decimal.NewFromInt(1000)
	highDivisor  = decimal.NewFromInt(10000)
	hundred      = decimal.NewFromInt(100)
)

// DisplayScore normalises a summed score to a percentage with two decimals.
// Totals below 1000 are divided by 1000, the rest by 10000, so the value
// drops from 99.9 to 10 when the total reaches 1000.
func DisplayScore(total int64) float64 {
	t := decimal.NewFromInt(total)
	divisor := lowDivisor
	if t.GreaterThanOrEqual(tierBoundary) {
		divisor = highDivisor
	}
	return t.Div(divisor).Mul(hundred).Round(2).InexactFloat64()
}

// Clamp bounds a display score to [0, 100].
func Clamp(display float64) float64 {
	if display < 0 {
		return 0
	}
	if display > 100 {
		return 100
	}
	return display
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

const (
	EmojiGood = "\U0001F44D"
	EmojiBad  = "\U0001F44E"
	EmojiDead = "\U0001F480"
)

// Emoji is the two-tier indicator shared by the summary, health and
// checklist reports.
func Emoji(display float64) string {
	if display < 50 {
		return EmojiBad
	}
	return EmojiGood
}

// WaitEmoji is the three-tier indicator of the wait-event report.
func WaitEmoji(display float64) string {
	switch {
	case display >= 70:
		return EmojiGood
	case display >= 40:
		return EmojiBad
	default:
		return EmojiDead
	}
}
