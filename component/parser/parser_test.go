package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFragmentedTables(t *testing.T) {
	lines := []string{
		"APP ORDERS 1000 5000 120.5 2.5",
		"APP ITEMS 200 100 80 7.25",
		"APP BROKEN 10 10 10",
		"APP LOGS 0 0 0 2.5",
		"APP BAD x 1 1 1",
		"APP WIDE 1 1 1 1 extra",
	}
	tables := ParseFragmentedTables(lines)
	require.Len(t, tables, 3)
	require.Equal(t, "ITEMS", tables[0].TableName)
	// equal unused space keeps input order
	require.Equal(t, "ORDERS", tables[1].TableName)
	require.Equal(t, "LOGS", tables[2].TableName)
	require.Equal(t, int64(1000), tables[1].Blocks)
	require.Equal(t, int64(5000), tables[1].NumRows)
	require.Equal(t, 120.5, tables[1].AvgRowLen)

	pct, ok := tables[1].FragmentationPct()
	require.True(t, ok)
	require.InDelta(t, 2.5*1024*1024/(1000*8192)*100, pct, 1e-9)
	_, ok = tables[2].FragmentationPct()
	require.False(t, ok)

	// parsing twice yields the same order
	require.Equal(t, tables, ParseFragmentedTables(lines))
}

func TestParseTablespaces(t *testing.T) {
	tss := ParseTablespaces([]string{
		"USERS 200 50",
		"SYSTEM 500 100",
		"TEMP 1,000 12,345.5",
		"SHORT 1",
		"BAD 1 x",
	})
	require.Equal(t, []Tablespace{
		{Name: "TEMP", FreeMB: 12345.5},
		{Name: "SYSTEM", FreeMB: 100},
		{Name: "USERS", FreeMB: 50},
	}, tss)
}

func hourlyLine(date string, v int) string {
	line := date
	for i := 0; i < 24; i++ {
		line += fmt.Sprintf(" %d", v)
	}
	return line
}

func TestParseArchival(t *testing.T) {
	days := ParseArchival([]string{
		"DAY 00 01 02",
		hourlyLine("2025-01-01", 1),
		hourlyLine("2024-12-31", 1),
		"2025-01-02 1 2 3",
		hourlyLine("2025-01-03", 10) + " 99",
		hourlyLine("2025-01-01", 2),
		"2025-01-04 " + "x" + hourlyLine("", 1),
	}, "2025")
	require.Len(t, days, 2)
	require.Equal(t, "2025-01-01", days[0].Date)
	require.Equal(t, int64(48), days[0].Total())
	require.Equal(t, "2025-01-03", days[1].Date)
	require.Len(t, days[1].Hourly, 24)
	require.Equal(t, int64(240), days[1].Total())
}

func TestParseDBLinks(t *testing.T) {
	lines := []string{
		"APP LINK1 SCOTT",
		"db1.example.com",
		"2024-01-01 NO NO YES NO",
		"APP LINK2",
		"db2.example.com",
		"2024-01-01 NO NO YES NO",
		"APP LINK3 SCOTT",
		"db3.example.com",
		"2024-01-01 NO",
		"APP LINK4 SCOTT",
		"db4.example.com",
		"2024-01-01 NO NO YES NO",
		"APP LINK5 SCOTT",
		"db5.example.com",
	}
	links := ParseDBLinks(lines)
	require.Len(t, links, 2)
	require.Equal(t, DBLink{
		Owner:          "APP",
		DBLinkName:     "LINK1",
		Username:       "SCOTT",
		Host:           "db1.example.com",
		Created:        "2024-01-01",
		Hidden:         "NO",
		SharedInterval: "NO",
		Valid:          "YES",
		IntraCDB:       "NO",
	}, links[0])
	require.Equal(t, "LINK4", links[1].DBLinkName)

	require.Empty(t, ParseDBLinks(lines[:2]))
	require.Len(t, ParseDBLinks(lines[:3]), 1)
}

func TestParseCPUQueriesAlternating(t *testing.T) {
	records := ParseQueries([]string{
		"abc123 APP 12.5 20 7",
		"select * from orders",
		"def456 APP 3",
		"ghi789 APP 40 41",
		"update items set x = 1",
		"not a metadata line",
	}, CPULayout)
	require.Len(t, records, 3)

	require.Equal(t, "abc123", records[0].SQLID)
	require.Equal(t, "APP", records[0].Owner)
	require.Equal(t, 12.5, records[0].Metric(MetricCPUTime))
	require.Equal(t, 20.0, records[0].Metric(MetricElapsedTime))
	require.Equal(t, 7.0, records[0].Metric(MetricRowsProcessed))
	require.Equal(t, "select * from orders", records[0].SQLText)

	// a following metadata line is never taken as SQL text
	require.Equal(t, SQLTextPlaceholder, records[1].SQLText)
	require.Equal(t, 3.0, records[1].Metric(MetricElapsedTime))
	require.Equal(t, 0.0, records[1].Metric(MetricRowsProcessed))

	require.Equal(t, "update items set x = 1", records[2].SQLText)

	top := TopQueries(records, MetricCPUTime, 2)
	require.Equal(t, []string{"ghi789", "abc123"}, []string{top[0].SQLID, top[1].SQLID})
}

func TestParseQueriesNumericSQLText(t *testing.T) {
	records := ParseQueries([]string{
		"abc123 SCOTT 12000 13000 5",
		"select a, 100 b from emp",
		"def456 SCOTT 300",
		"upd1 SCOTT 1 2 3 4",
	}, CPULayout)
	require.Len(t, records, 2)
	require.Equal(t, "abc123", records[0].SQLID)
	require.Equal(t, "select a, 100 b from emp", records[0].SQLText)
	// more numbers than the layout has columns can only be SQL text
	require.Equal(t, "def456", records[1].SQLID)
	require.Equal(t, "upd1 SCOTT 1 2 3 4", records[1].SQLText)
	require.Equal(t, 12000.0, records[0].Metric(MetricCPUTime))
	require.Equal(t, 300.0, records[1].Metric(MetricCPUTime))
}

func TestParseCPUQueriesInline(t *testing.T) {
	records := ParseQueries([]string{
		"abc123 APP 12.5 sql_text,select 1 from dual",
		"def456 APP oops sql_text,select 2 from dual",
		"short sql_text,select 3",
		"ghi789 APP 1 2 3 select 4 from dual",
		"select 5 from dual",
	}, CPULayout)
	require.Len(t, records, 3)
	require.Equal(t, "select 1 from dual", records[0].SQLText)
	require.Equal(t, 12.5, records[0].Metric(MetricElapsedTime))
	require.Equal(t, 0.0, records[1].Metric(MetricCPUTime))
	require.Equal(t, "select 2 from dual", records[1].SQLText)
	// inline trailing text wins over the next line
	require.Equal(t, "select 4 from dual", records[2].SQLText)
	require.Equal(t, 3.0, records[2].Metric(MetricRowsProcessed))
}

func TestParseIOQueries(t *testing.T) {
	records := ParseQueries([]string{
		"io1 APP 10 500 2000 50 200",
		"select a from t",
		"io2 APP 4 100",
		"select b from t",
		"io3 APP 0 7 sql_text,select c from t",
	}, IOLayout)
	require.Len(t, records, 3)

	require.Equal(t, 50.0, records[0].Metric(MetricReadPerExec))
	require.Equal(t, 200.0, records[0].Metric(MetricGetsPerExec))

	require.Equal(t, 100.0, records[1].Metric(MetricDiskReads))
	require.Equal(t, 0.0, records[1].Metric(MetricBufferGets))
	require.Equal(t, 25.0, records[1].Metric(MetricReadPerExec))
	require.Equal(t, 0.0, records[1].Metric(MetricGetsPerExec))
	require.Equal(t, "select b from t", records[1].SQLText)

	require.Equal(t, 0.0, records[2].Metric(MetricReadPerExec))
	require.Equal(t, "select c from t", records[2].SQLText)

	SortQueries(records, MetricDiskReads)
	require.Equal(t, "io1", records[0].SQLID)
	require.Equal(t, "io2", records[1].SQLID)
	require.Equal(t, "io3", records[2].SQLID)
}

func TestParseASMUsage(t *testing.T) {
	require.Equal(t, []ASMUsage{
		{Group: "DATA", UsedPct: 45.5},
		{Group: "FRA", Problem: ProblemInvalidNumber},
		{Group: "RECO", Problem: ProblemMissingValue},
	}, ParseASMUsage([]string{"DATA 45.5", "FRA full", "RECO"}))
}

func TestParseTransactionManagers(t *testing.T) {
	require.Equal(t, []TransactionManager{
		{Label: "Cost Manager", Status: "active"},
		{Label: "Inventory", Status: "inactive"},
		{Label: "Queue", Status: "paused"},
	}, ParseTransactionManagers([]string{
		"Cost Manager 12 Active",
		"Inventory INACTIVE",
		"lonely",
		"Queue 1 Paused",
	}))
}

func TestParseModifiedTables(t *testing.T) {
	require.Equal(t, []ModifiedTable{
		{Owner: "APP", Table: "ORDERS", Inserts: 1234, Updates: 5, Deletes: 0, Total: 1239},
		{Owner: "APP", Table: "ITEMS", Problem: ProblemInvalidNumber},
		{Problem: ProblemInvalidRow},
	}, ParseModifiedTables([]string{
		"APP ORDERS 1234 5.0 0 1239",
		"APP ITEMS 1 two 3 4",
		"APP SHORT 1",
	}))
	require.Equal(t, "APP.ORDERS", ModifiedTable{Owner: "APP", Table: "ORDERS"}.FullName())
}

func TestParseTrend(t *testing.T) {
	require.Equal(t, []TrendPoint{
		{Label: "09:00", Count: 3},
		{Label: "10:00", Count: 7},
		{Label: "11:00", Count: 1},
	}, ParseTrend([]string{
		"time,count",
		"10:00, 5",
		"09:00 3",
		"11:00,1,extra",
		"10:00,7",
		"12:00",
	}))
	require.Empty(t, ParseTrend(nil))
}
