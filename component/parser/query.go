package parser

import (
	"sort"
	"strings"
)

// Metric names carried by QueryRecord.Metrics.
const (
	MetricCPUTime       = "cpu_time"
	MetricElapsedTime   = "elapsed_time"
	MetricRowsProcessed = "rows_processed"
	MetricExecutions    = "executions"
	MetricDiskReads     = "disk_reads"
	MetricBufferGets    = "buffer_gets"
	MetricReadPerExec   = "read_per_exec"
	MetricGetsPerExec   = "gets_per_exec"
)

// InlineSQLMarker separates metadata from SQL text on a single line.
const InlineSQLMarker = "sql_text,"

// SQLTextPlaceholder stands for a query whose text was not exported.
const SQLTextPlaceholder = "N/A"

type QueryRecord struct {
	SQLID   string             `json:"sql_id" yaml:"sql_id"`
	Owner   string             `json:"owner" yaml:"owner"`
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`
	SQLText string             `json:"sql_text" yaml:"sql_text"`
}

// Metric returns the named metric, zero when absent.
func (r QueryRecord) Metric(name string) float64 {
	return r.Metrics[name]
}

// QueryLayout names the numeric columns that follow `sql_id owner` on a
// metadata line and how absent trailing columns are filled in.
type QueryLayout struct {
	Kind     string
	Columns  []string
	Defaults func(m map[string]float64)
}

// CPULayout is `sql_id owner cpu_time [elapsed_time] [rows_processed]`.
// elapsed_time defaults to cpu_time.
var CPULayout = QueryLayout{
	Kind:    "cpu-query",
	Columns: []string{MetricCPUTime, MetricElapsedTime, MetricRowsProcessed},
	Defaults: func(m map[string]float64) {
		if _, ok := m[MetricElapsedTime]; !ok {
			m[MetricElapsedTime] = m[MetricCPUTime]
		}
		if _, ok := m[MetricRowsProcessed]; !ok {
			m[MetricRowsProcessed] = 0
		}
	},
}

// IOLayout is `sql_id owner executions [disk_reads] [buffer_gets]
// [read_per_exec] [gets_per_exec]`. Missing per-exec columns are derived
// from their counter and executions.
var IOLayout = QueryLayout{
	Kind: "io-query",
	Columns: []string{MetricExecutions, MetricDiskReads, MetricBufferGets,
		MetricReadPerExec, MetricGetsPerExec},
	Defaults: func(m map[string]float64) {
		for _, name := range []string{MetricDiskReads, MetricBufferGets} {
			if _, ok := m[name]; !ok {
				m[name] = 0
			}
		}
		perExec := func(name, counter string) {
			if _, ok := m[name]; ok {
				return
			}
			if exec := m[MetricExecutions]; exec > 0 {
				m[name] = m[counter] / exec
			} else {
				m[name] = 0
			}
		}
		perExec(MetricReadPerExec, MetricDiskReads)
		perExec(MetricGetsPerExec, MetricBufferGets)
	},
}

// isQueryMetadata reports whether line looks like `sql_id owner <number> ...`.
func isQueryMetadata(line string) bool {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return false
	}
	_, ok := parseFloat(parts[2])
	return ok
}

// isBareMetadata reports whether line is `sql_id owner` followed only by
// numeric layout columns. SQL text such as `select a, 100 b from emp` is not.
func (l QueryLayout) isBareMetadata(line string) bool {
	parts := strings.Fields(line)
	if len(parts) < 3 || len(parts)-2 > len(l.Columns) {
		return false
	}
	for _, p := range parts[2:] {
		if _, ok := parseFloat(p); !ok {
			return false
		}
	}
	return true
}

// ParseQueries reads query records in either layout, detected per line:
// a line holding InlineSQLMarker carries its own SQL text after the marker;
// otherwise a metadata line may be followed by one plain line of SQL text.
func ParseQueries(lines []string, layout QueryLayout) []QueryRecord {
	var records []QueryRecord
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if idx := strings.Index(line, InlineSQLMarker); idx >= 0 {
			rec, ok := layout.parseMetadata(line[:idx])
			if !ok {
				skipLine(layout.Kind, i+1, line, "want sql_id, owner and a metric")
				continue
			}
			rec.SQLText = strings.TrimSpace(line[idx+len(InlineSQLMarker):])
			records = append(records, rec.withText())
			continue
		}
		if !isQueryMetadata(line) {
			skipLine(layout.Kind, i+1, line, "not a metadata line")
			continue
		}
		rec, _ := layout.parseMetadata(line)
		if rec.SQLText == "" && i+1 < len(lines) {
			next := lines[i+1]
			if !layout.isBareMetadata(next) && !strings.Contains(next, InlineSQLMarker) {
				rec.SQLText = strings.TrimSpace(next)
				i++
			}
		}
		records = append(records, rec.withText())
	}
	return records
}

// parseMetadata reads sql_id and owner, then as many numeric columns as the
// layout names. Whatever follows the numbers is inline SQL text.
func (l QueryLayout) parseMetadata(meta string) (QueryRecord, bool) {
	parts := strings.Fields(meta)
	if len(parts) < 3 {
		return QueryRecord{}, false
	}
	rec := QueryRecord{
		SQLID:   parts[0],
		Owner:   parts[1],
		Metrics: make(map[string]float64, len(l.Columns)),
	}
	rest := parts[2:]
	n := 0
	for n < len(rest) && n < len(l.Columns) {
		v, ok := parseFloat(rest[n])
		if !ok {
			break
		}
		rec.Metrics[l.Columns[n]] = v
		n++
	}
	if n == 0 {
		// the first metric is present but unreadable
		rec.Metrics[l.Columns[0]] = 0
		n = 1
	}
	if n < len(rest) {
		rec.SQLText = strings.Join(rest[n:], " ")
	}
	l.Defaults(rec.Metrics)
	return rec, true
}

func (r QueryRecord) withText() QueryRecord {
	if r.SQLText == "" {
		r.SQLText = SQLTextPlaceholder
	}
	return r
}

// SortQueries orders records by metric, largest first, keeping input order
// among equal values.
func SortQueries(records []QueryRecord, metric string) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Metric(metric) > records[j].Metric(metric)
	})
}

// TopQueries sorts records by metric and returns at most n of them.
func TopQueries(records []QueryRecord, metric string, n int) []QueryRecord {
	SortQueries(records, metric)
	if n >= 0 && len(records) > n {
		return records[:n]
	}
	return records
}
