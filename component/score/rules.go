package score

import (
	"github.com/dbwatch/ora-monitoring/component/parser"
)

// Health check rules.

const (
	CacheRatioThreshold    = 90.0
	ObjectCountThreshold   = 1000
	ASMUsageThreshold      = 90.0
	TablespaceColorCutover = 10000.0
)

func CacheRatioPoints(ratio float64) int64 {
	if ratio >= CacheRatioThreshold {
		return 5
	}
	return 0
}

// ObjectCountPoints rewards a count that does not exceed max.
func ObjectCountPoints(count, max int64) int64 {
	if count <= max {
		return 5
	}
	return 0
}

func ASMPoints(usedPct float64) int64 {
	if usedPct > ASMUsageThreshold {
		return 0
	}
	return 6
}

func TransactionManagerPoints(status string) int64 {
	if status == parser.ManagerActive {
		return 1
	}
	return 0
}

func TablespacePoints(freeMB float64) int64 {
	switch {
	case freeMB <= 10:
		return 2
	case freeMB <= 30:
		return 5
	case freeMB >= 90:
		return 10
	default:
		return 20
	}
}

const (
	ColorLow  = "rgba(255, 99, 132, 1)"
	ColorHigh = "rgba(74, 144, 226, 1)"
)

func TablespaceColor(freeMB float64) string {
	if freeMB < TablespaceColorCutover {
		return ColorLow
	}
	return ColorHigh
}

func ArchivalDayPoints(total int64) int64 {
	switch {
	case total < 100:
		return 20
	case total < 300:
		return 10
	case total < 1000:
		return 15
	default:
		return 5
	}
}

// Checklist rules.

const FragmentationBonusThreshold = 15.0

func fragmentationRowPoints(pct float64) float64 {
	switch {
	case pct < 10:
		return 1.5
	case pct < 30:
		return 1.0
	default:
		return 0.5
	}
}

// FragmentationScore sums the per-table points of tables with blocks.
func FragmentationScore(tables []parser.FragmentedTable) float64 {
	var total float64
	for _, t := range tables {
		if pct, ok := t.FragmentationPct(); ok {
			total += fragmentationRowPoints(pct)
		}
	}
	return total
}

// FragmentationPoints is the bonus for a fragmentation score above 15.
func FragmentationPoints(tables []parser.FragmentedTable) int64 {
	if FragmentationScore(tables) > FragmentationBonusThreshold {
		return 15
	}
	return 0
}

// CPUTotal sums cpu and elapsed time over all records.
func CPUTotal(records []parser.QueryRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Metric(parser.MetricCPUTime) + r.Metric(parser.MetricElapsedTime)
	}
	return total
}

func CPUPoints(total float64) int64 {
	switch {
	case total < 100:
		return 20
	case total < 1000:
		return 10
	case total < 10000:
		return 15
	default:
		return 5
	}
}

// IOTotal sums disk reads and buffer gets over records.
func IOTotal(records []parser.QueryRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Metric(parser.MetricDiskReads) + r.Metric(parser.MetricBufferGets)
	}
	return total
}

func IOPoints(total float64) int64 {
	switch {
	case total < 1e5:
		return 20
	case total < 1e6:
		return 15
	case total < 1e7:
		return 10
	default:
		return 5
	}
}

func DBLinkPoints(links []parser.DBLink) int64 {
	return int64(len(links))
}

// Wait-event rules.

// WaitVolumePoints scores the summed top-N wait counts. Fewer waits score
// higher; no waits at all score most.
func WaitVolumePoints(total int64, found bool) int64 {
	switch {
	case !found:
		return 25
	case total < 50:
		return 20
	case total < 200:
		return 15
	case total < 500:
		return 10
	default:
		return 5
	}
}

const (
	TrendFromFile    = 10
	TrendSynthesized = 5
)

// BlockingVolumePoints penalises heavy blocking.
func BlockingVolumePoints(total int64, found bool) int64 {
	switch {
	case !found:
		return 15
	case total > 50:
		return -10
	case total > 20:
		return -5
	default:
		return 5
	}
}

const MissingBlockingFile = 5

func LockingPoints(found bool) int64 {
	if found {
		return 5
	}
	return 10
}

// Summary rules.

func SummaryPoints(labels int) int64 {
	return int64(labels)
}
