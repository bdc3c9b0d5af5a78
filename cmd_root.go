package main

import (
	"context"

	"github.com/dbwatch/ora-monitoring/component/report"
	"github.com/dbwatch/ora-monitoring/component/session"
	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/database"
	"github.com/dbwatch/ora-monitoring/database/docdb"
	"github.com/dbwatch/ora-monitoring/metrics"
	"github.com/dbwatch/ora-monitoring/utils/printer"

	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	nmConfig         = "config"
	nmCSVDir         = "csv-dir"
	nmLogPath        = "log.path"
	nmLogLevel       = "log.level"
	nmStoragePath    = "storage.path"
	nmStorageBackend = "storage.docdb-backend"
	nmMetricsFile    = "metrics.textfile"
	nmSession        = "session"
)

var (
	configPath string
	sessionID  string
)

var rootCmd = &cobra.Command{
	Use:   "ora-monitoring",
	Short: "Score an Oracle database from its CSV snapshot",
	Long: `ora-monitoring reads the CSV files exported from an Oracle database and
computes the summary, health check, wait event and checklist reports. Report
scores are kept per session so that the display score reflects every report
computed in that session.`,
	SilenceUsage:       true,
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return env.open(cmd.Context(), cmd.Flags()) },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return env.close() },
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVar(&configPath, nmConfig, "", "config file path")
	fs.String(nmCSVDir, "", "directory holding the CSV snapshot")
	fs.String(nmLogPath, "", "log directory, logs go to stderr when empty")
	fs.String(nmLogLevel, "", "log level: DEBUG, INFO, WARN or ERROR")
	fs.String(nmStoragePath, "", "storage directory of the session scores")
	fs.String(nmStorageBackend, "", "session storage backend: sqlite, genji or memory")
	fs.String(nmMetricsFile, "", "write metrics in the Prometheus text format to this file")
	fs.StringVar(&sessionID, nmSession, session.DefaultSessionID, "session the report scores accumulate in")
}

// overrideConfig applies the flags set on the command line.
func overrideConfig(fs *pflag.FlagSet) func(cfg *config.Config) {
	return func(cfg *config.Config) {
		fs.Visit(func(f *pflag.Flag) {
			value := f.Value.String()
			switch f.Name {
			case nmCSVDir:
				cfg.CSVDir = value
			case nmLogPath:
				cfg.Log.Path = value
			case nmLogLevel:
				cfg.Log.Level = value
			case nmStoragePath:
				cfg.Storage.Path = value
			case nmStorageBackend:
				cfg.Storage.DocDBBackend = value
			case nmMetricsFile:
				cfg.Metrics.TextFile = value
			}
		})
	}
}

// environment holds what a command runs against.
type environment struct {
	cfg   *config.Config
	db    docdb.DocDB
	store session.Store
}

var env environment

func (e *environment) open(ctx context.Context, fs *pflag.FlagSet) error {
	cfg, err := config.InitConfig(configPath, overrideConfig(fs))
	if err != nil {
		return err
	}
	cfg.Log.InitDefaultLogger()
	printer.PrintInfo()
	e.cfg = cfg

	e.db, err = database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if e.db == nil {
		e.store = session.NewMemStore()
		return nil
	}
	if err = config.LoadConfigFromStorage(ctx, e.db); err != nil {
		_ = e.db.Close()
		return errors.Wrap(err, "failed to load config from storage")
	}
	e.store = session.NewDocDBStore(ctx, e.db)
	return nil
}

// close releases what open acquired. It is a no-op once closed.
func (e *environment) close() error {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			log.Warn("failed to close session store", zap.Error(err))
		}
		e.store = nil
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			log.Warn("failed to close docdb", zap.Error(err))
		}
		e.db = nil
	}
	if e.cfg == nil {
		return nil
	}
	textFile := e.cfg.Metrics.TextFile
	e.cfg = nil
	if textFile != "" {
		return metrics.WriteTextFile(textFile)
	}
	return nil
}

func (e *environment) assembler() *report.Assembler {
	return report.NewAssembler(e.cfg.CSVDir, e.store)
}
