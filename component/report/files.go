package report

// Snapshot file names.
const (
	BufferCacheHitRatioFile  = "buff_cache_hit_ratio.csv"
	LibraryCacheHitRatioFile = "lib_hit_ratio.csv"
	InvalidObjectsFile       = "invalid_object_count.csv"
	StaleTablesFile          = "stale_table_count.csv"
	UnusableIndexesFile      = "unusable_indexes.csv"
	ASMDiskGroupFile         = "asm_diskgroup_usage.csv"
	MostModifiedTableFile    = "most_modified_table.csv"
	TransactionManagerFile   = "cost_inv_managers.csv"
	TablespaceFile           = "tablespace.csv"
	ArchivalFile             = "archivals_for_last_2days_per_hour.csv"

	FragmentedTablesFile = "top_10_fragmented_tables.csv"
	CPUQueriesFile       = "top_10_cpu_consuming_queries.csv"
	IOQueriesFile        = "top_10_io_consuming_queries.csv"
	DBLinksFile          = "dblinks.csv"

	BlockingFile         = "blocking.csv"
	BlockingSessionsFile = "blocking_sessions.csv"
)

type labelledFile struct {
	label string
	file  string
}

var summaryFiles = []labelledFile{
	{"Db Name", "V_DB_NAME.csv"},
	{"Version", "V_VERSION.csv"},
	{"Nodes", "V_NODES.csv"},
	{"Db Status", "V_DB_status.csv"},
	{"Db Role", "V_DB_ROLE.csv"},
	{"Db Archival Status", "v_db_archival_status.csv"},
	{"Total Active Sessions", "v_total_active_sessions.csv"},
	{"Pdb Size Gb", "V_PDB_SIZE_GB.csv"},
	{"Cdb Size Gb", "V_CDB_SIZE_GB.csv"},
	{"Location", "V_LOCATION.csv"},
	{"Timezone", "V_TIMEZONE.csv"},
	{"Last Reboot", "V_LAST_REBOOT.csv"},
	{"Sga Mb", "V_SGA_MB.csv"},
	{"Pga Mb", "V_PGA_MB.csv"},
	{"Last Gather Run", "v_last_gather_run.csv"},
}

// dbInfoLabels rename the first summary items for the database banner.
var dbInfoLabels = []string{"Database Name", "Oracle Version", "Number of Nodes", "Database Status"}

var (
	cacheRatioFiles = []labelledFile{
		{"Buffer Cache Hit Ratio", BufferCacheHitRatioFile},
		{"Library Cache Hit Ratio", LibraryCacheHitRatioFile},
	}
	objectCountFiles = []labelledFile{
		{"Invalid Objects", InvalidObjectsFile},
		{"Stale Tables", StaleTablesFile},
	}
)

var (
	waitEventFiles = []string{"wait_events.csv", "waiting_locks.csv", "waiting_blocking_locks.csv", "session_waits.csv"}
	trendFiles     = []string{"wait_trends.csv", "hourly_waits.csv", "wait_statistics.csv"}
	blockingFiles  = []string{BlockingSessionsFile, "session_blocks.csv", "locks.csv"}
	lockingFiles   = []string{"sessions_locks.csv", "lock_waits.csv", "session_locks.csv"}
)
