package parser

import (
	"strconv"
	"strings"
)

const hoursPerDay = 24

type ArchivalDay struct {
	Date   string  `json:"date" yaml:"date"`
	Hourly []int64 `json:"hourly" yaml:"hourly"`
}

func (d ArchivalDay) Total() (total int64) {
	for _, v := range d.Hourly {
		total += v
	}
	return
}

// ParseArchival keeps the lines whose date token starts with yearPrefix and
// that carry at least 24 integer hourly buckets. A repeated date replaces the
// earlier buckets but keeps its position.
func ParseArchival(lines []string, yearPrefix string) []ArchivalDay {
	var days []ArchivalDay
	index := make(map[string]int)
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 || !strings.HasPrefix(parts[0], yearPrefix) {
			continue
		}
		if len(parts) < hoursPerDay+1 {
			skipLine("archival", i+1, line, "want 24 hourly buckets")
			continue
		}
		hourly := make([]int64, 0, hoursPerDay)
		for _, p := range parts[1 : hoursPerDay+1] {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				break
			}
			hourly = append(hourly, v)
		}
		if len(hourly) != hoursPerDay {
			skipLine("archival", i+1, line, "hourly bucket is not an integer")
			continue
		}
		if idx, ok := index[parts[0]]; ok {
			days[idx].Hourly = hourly
			continue
		}
		index[parts[0]] = len(days)
		days = append(days, ArchivalDay{Date: parts[0], Hourly: hourly})
	}
	return days
}
