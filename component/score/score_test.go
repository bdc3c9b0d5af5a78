package score

import (
	"testing"

	"github.com/dbwatch/ora-monitoring/component/parser"

	"github.com/stretchr/testify/require"
)

func TestDisplayScore(t *testing.T) {
	require.Equal(t, 50.0, DisplayScore(500))
	require.Equal(t, 50.0, DisplayScore(5000))
	require.Equal(t, 0.0, DisplayScore(0))
	require.Equal(t, 1.5, DisplayScore(15))
	require.Equal(t, -0.5, DisplayScore(-5))

	// the tier boundary jumps from 99.9 to 10
	require.Equal(t, 99.9, DisplayScore(999))
	require.Equal(t, 10.0, DisplayScore(1000))
	require.Equal(t, 10.01, DisplayScore(1001))
	require.Equal(t, 123.45, DisplayScore(12345))
}

func TestClampAndRound(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-3))
	require.Equal(t, 100.0, Clamp(123.45))
	require.Equal(t, 42.5, Clamp(42.5))
	require.Equal(t, 1.24, Round2(1.235))
	require.Equal(t, 33.33, Round2(100.0/3))
}

func TestEmoji(t *testing.T) {
	require.Equal(t, EmojiBad, Emoji(49.99))
	require.Equal(t, EmojiGood, Emoji(50))
	require.Equal(t, EmojiGood, WaitEmoji(70))
	require.Equal(t, EmojiBad, WaitEmoji(69.9))
	require.Equal(t, EmojiBad, WaitEmoji(40))
	require.Equal(t, EmojiDead, WaitEmoji(39.9))
}

func TestTallyAndSum(t *testing.T) {
	var tally Tally
	tally.Add("a", 5)
	tally.Add("zero", 0)
	tally.Add("b", -10)
	require.Equal(t, int64(-5), tally.Total)
	require.Equal(t, []Entry{{"a", 5}, {"b", -10}}, tally.Entries)

	scores := map[string]int64{SummaryKey: 15, HealthKey: 40, "other": 1000}
	require.Equal(t, int64(55), Sum(scores))
	require.False(t, AllZero(scores))
	require.True(t, AllZero(map[string]int64{WaitKey: 0}))
	require.True(t, AllZero(nil))
}

func TestHealthRules(t *testing.T) {
	require.Equal(t, int64(5), CacheRatioPoints(90))
	require.Equal(t, int64(0), CacheRatioPoints(89.99))
	require.Equal(t, int64(5), ObjectCountPoints(1000, 1000))
	require.Equal(t, int64(0), ObjectCountPoints(1001, 1000))
	require.Equal(t, int64(5), ObjectCountPoints(0, 0))
	require.Equal(t, int64(0), ObjectCountPoints(1, 0))
	require.Equal(t, int64(6), ASMPoints(90))
	require.Equal(t, int64(0), ASMPoints(90.5))
	require.Equal(t, int64(1), TransactionManagerPoints("active"))
	require.Equal(t, int64(0), TransactionManagerPoints("inactive"))

	require.Equal(t, int64(2), TablespacePoints(10))
	require.Equal(t, int64(5), TablespacePoints(30))
	require.Equal(t, int64(20), TablespacePoints(50))
	require.Equal(t, int64(10), TablespacePoints(90))
	require.Equal(t, int64(10), TablespacePoints(100))
	require.Equal(t, ColorLow, TablespaceColor(9999))
	require.Equal(t, ColorHigh, TablespaceColor(10000))

	require.Equal(t, int64(20), ArchivalDayPoints(99))
	require.Equal(t, int64(10), ArchivalDayPoints(100))
	require.Equal(t, int64(15), ArchivalDayPoints(300))
	require.Equal(t, int64(5), ArchivalDayPoints(1000))
}

func fragRows(n int, unusedMB float64) []parser.FragmentedTable {
	rows := make([]parser.FragmentedTable, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, parser.FragmentedTable{Blocks: 1000, ApproxUnusedMB: unusedMB})
	}
	return rows
}

func TestFragmentationBonus(t *testing.T) {
	// 0.5MB over 1000 blocks is 6.4%, 1.5 points per row
	tenRows := fragRows(10, 0.5)
	require.Equal(t, 15.0, FragmentationScore(tenRows))
	require.Equal(t, int64(0), FragmentationPoints(tenRows))

	// one more row at 12.8% adds 1.0
	sixteen := append(fragRows(10, 0.5), fragRows(1, 1)...)
	require.Equal(t, 16.0, FragmentationScore(sixteen))
	require.Equal(t, int64(15), FragmentationPoints(sixteen))

	// 64% scores 0.5, tables without blocks score nothing
	mixed := append(fragRows(2, 5), parser.FragmentedTable{Blocks: 0, ApproxUnusedMB: 1})
	require.Equal(t, 1.0, FragmentationScore(mixed))
}

func TestChecklistRules(t *testing.T) {
	cpu := []parser.QueryRecord{
		{Metrics: map[string]float64{parser.MetricCPUTime: 10, parser.MetricElapsedTime: 20}},
		{Metrics: map[string]float64{parser.MetricCPUTime: 30, parser.MetricElapsedTime: 40}},
	}
	require.Equal(t, 100.0, CPUTotal(cpu))
	require.Equal(t, int64(20), CPUPoints(99.9))
	require.Equal(t, int64(10), CPUPoints(100))
	require.Equal(t, int64(15), CPUPoints(1000))
	require.Equal(t, int64(5), CPUPoints(10000))

	io := []parser.QueryRecord{
		{Metrics: map[string]float64{parser.MetricDiskReads: 1000, parser.MetricBufferGets: 5000}},
		{Metrics: map[string]float64{parser.MetricDiskReads: 1}},
	}
	require.Equal(t, 6001.0, IOTotal(io))
	require.Equal(t, int64(20), IOPoints(99999))
	require.Equal(t, int64(15), IOPoints(1e5))
	require.Equal(t, int64(10), IOPoints(1e6))
	require.Equal(t, int64(5), IOPoints(1e7))

	require.Equal(t, int64(2), DBLinkPoints(make([]parser.DBLink, 2)))
}

func TestWaitRules(t *testing.T) {
	require.Equal(t, int64(25), WaitVolumePoints(0, false))
	require.Equal(t, int64(20), WaitVolumePoints(49, true))
	require.Equal(t, int64(15), WaitVolumePoints(50, true))
	require.Equal(t, int64(10), WaitVolumePoints(200, true))
	require.Equal(t, int64(5), WaitVolumePoints(500, true))

	require.Equal(t, int64(15), BlockingVolumePoints(0, false))
	require.Equal(t, int64(5), BlockingVolumePoints(20, true))
	require.Equal(t, int64(-5), BlockingVolumePoints(21, true))
	require.Equal(t, int64(-10), BlockingVolumePoints(51, true))

	require.Equal(t, int64(5), LockingPoints(true))
	require.Equal(t, int64(10), LockingPoints(false))
	require.Equal(t, int64(15), SummaryPoints(15))
}
