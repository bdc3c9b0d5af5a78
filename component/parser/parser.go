// Package parser turns snapshot lines into typed records. Malformed lines are
// skipped and logged at DEBUG; parsing never fails.
package parser

import (
	"strconv"
	"strings"

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Problem describes why a record could not be fully read. Records carrying a
// problem are still reported so that they surface as warnings.
type Problem string

const (
	ProblemNone          Problem = ""
	ProblemInvalidNumber Problem = "Invalid number"
	ProblemMissingValue  Problem = "Missing value"
	ProblemInvalidRow    Problem = "Invalid row format"
)

func skipLine(kind string, lineNo int, line string, reason string) {
	log.Debug("skip malformed line",
		zap.String("kind", kind),
		zap.Int("line", lineNo),
		zap.String("reason", reason),
		zap.String("content", line))
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseIntLoose accepts "12" as well as "12.0" and truncates.
func parseIntLoose(s string) (int64, bool) {
	v, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return int64(v), true
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
