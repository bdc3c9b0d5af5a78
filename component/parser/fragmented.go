package parser

import (
	"sort"
	"strings"
)

const blockSize = 8192

type FragmentedTable struct {
	Owner          string  `json:"owner" yaml:"owner"`
	TableName      string  `json:"table_name" yaml:"table_name"`
	Blocks         int64   `json:"blocks" yaml:"blocks"`
	NumRows        int64   `json:"num_rows" yaml:"num_rows"`
	AvgRowLen      float64 `json:"avg_row_len" yaml:"avg_row_len"`
	ApproxUnusedMB float64 `json:"approx_unused_mb" yaml:"approx_unused_mb"`
}

// FragmentationPct is the unused share of the allocated blocks. ok is false
// for tables without blocks.
func (t FragmentedTable) FragmentationPct() (pct float64, ok bool) {
	if t.Blocks <= 0 {
		return 0, false
	}
	return t.ApproxUnusedMB * 1024 * 1024 / float64(t.Blocks*blockSize) * 100, true
}

// ParseFragmentedTables reads `owner table blocks rows avg_row_len unused_mb`
// lines and returns them ordered by unused space, largest first. Lines without
// exactly six tokens are dropped.
func ParseFragmentedTables(lines []string) []FragmentedTable {
	tables := make([]FragmentedTable, 0, len(lines))
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) != 6 {
			skipLine("fragmented-table", i+1, line, "want 6 tokens")
			continue
		}
		blocks, ok1 := parseIntLoose(parts[2])
		rows, ok2 := parseIntLoose(parts[3])
		avgRowLen, ok3 := parseFloat(parts[4])
		unused, ok4 := parseFloat(parts[5])
		if !(ok1 && ok2 && ok3 && ok4) {
			skipLine("fragmented-table", i+1, line, "not a number")
			continue
		}
		if blocks < 0 || rows < 0 || avgRowLen < 0 || unused < 0 {
			skipLine("fragmented-table", i+1, line, "negative value")
			continue
		}
		tables = append(tables, FragmentedTable{
			Owner:          parts[0],
			TableName:      parts[1],
			Blocks:         blocks,
			NumRows:        rows,
			AvgRowLen:      avgRowLen,
			ApproxUnusedMB: unused,
		})
	}
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].ApproxUnusedMB > tables[j].ApproxUnusedMB
	})
	return tables
}
