package parser

import (
	"sort"
	"strings"
)

type Tablespace struct {
	Name   string  `json:"name" yaml:"name"`
	FreeMB float64 `json:"free_mb" yaml:"free_mb"`
}

// ParseTablespaces reads `name size free` lines, where free may carry
// thousands separators, and orders the result by free space descending.
func ParseTablespaces(lines []string) []Tablespace {
	res := make([]Tablespace, 0, len(lines))
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			skipLine("tablespace", i+1, line, "want at least 3 tokens")
			continue
		}
		free, ok := parseFloat(strings.ReplaceAll(parts[2], ",", ""))
		if !ok {
			skipLine("tablespace", i+1, line, "free space is not a number")
			continue
		}
		res = append(res, Tablespace{Name: parts[0], FreeMB: free})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].FreeMB > res[j].FreeMB
	})
	return res
}
