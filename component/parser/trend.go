package parser

import (
	"sort"
	"strconv"
	"strings"
)

type TrendPoint struct {
	Label string `json:"label" yaml:"label"`
	Count int64  `json:"count" yaml:"count"`
}

// ParseTrend reads `time,count` or `time count` rows. A repeated time keeps
// the last count. Points are ordered by label.
func ParseTrend(lines []string) []TrendPoint {
	counts := make(map[string]int64)
	for i, line := range lines {
		var parts []string
		if strings.Contains(line, ",") {
			parts = strings.Split(line, ",")
		} else {
			parts = strings.Fields(line)
		}
		if len(parts) < 2 {
			skipLine("trend", i+1, line, "want time and count")
			continue
		}
		count, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			skipLine("trend", i+1, line, "count is not an integer")
			continue
		}
		counts[strings.TrimSpace(parts[0])] = count
	}

	points := make([]TrendPoint, 0, len(counts))
	for label, count := range counts {
		points = append(points, TrendPoint{Label: label, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})
	return points
}
