package config

import (
	stdlog "log"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	CSVDir  string  `toml:"csv-dir" json:"csv_dir"`
	Log     Log     `toml:"log" json:"log"`
	Storage Storage `toml:"storage" json:"storage"`
	Report  Report  `toml:"report" json:"report"`
	Metrics Metrics `toml:"metrics" json:"metrics"`
}

var defaultConfig = Config{
	CSVDir: "output_csv",
	Log: Log{
		Path:  "", // default output is stderr
		Level: "INFO",
	},
	Storage: Storage{
		Path:                 "data",
		DocDBBackend:         DocDBBackendSQLite,
		SessionRetentionSecs: 7 * 24 * 60 * 60, // 7 days
	},
	Report: Report{
		SynthesizeTrend:    false,
		TrendSeed:          0,
		ArchivalYearPrefix: "2025",
		ClampWaitScore:     true,
		TopN:               10,
		GraphMaxNodes:      20,
		GraphMaxEdges:      50,
	},
}

func GetDefaultConfig() Config {
	return defaultConfig
}

type Subscriber = chan GetLatestConfig
type GetLatestConfig = func() Config

var (
	globalConfigMutex sync.Mutex
	globalConfig      = defaultConfig

	subscribersMutex        sync.Mutex
	configChangeSubscribers []Subscriber
)

// Subscribe returns a channel that receives a config getter every
// time the config is changed. By calling the getter, you can get
// the latest config.
//
// There will be one getter in the channel after subscribing.
func Subscribe() Subscriber {
	subscribersMutex.Lock()
	defer subscribersMutex.Unlock()

	ch := make(chan GetLatestConfig, 1)
	configChangeSubscribers = append(configChangeSubscribers, ch)
	ch <- GetGlobalConfig
	return ch
}

func notifyConfigChange() {
	subscribersMutex.Lock()
	defer subscribersMutex.Unlock()

	for _, ch := range configChangeSubscribers {
		select {
		case ch <- GetGlobalConfig:
		default:
		}
	}
}

func GetGlobalConfig() (res Config) {
	globalConfigMutex.Lock()
	res = globalConfig
	globalConfigMutex.Unlock()
	return
}

// StoreGlobalConfig stores a new config to the globalConf. It mostly uses in the test to avoid some data races.
func StoreGlobalConfig(config Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()
	notifyConfigChange()
}

// UpdateGlobalConfig accesses an update function to update the global config
func UpdateGlobalConfig(update func(Config) Config) {
	globalConfigMutex.Lock()
	globalConfig = update(globalConfig)
	globalConfigMutex.Unlock()
	notifyConfigChange()
}

func InitConfig(configPath string, override func(config *Config)) (*Config, error) {
	config := defaultConfig

	if len(configPath) > 0 {
		if err := config.Load(configPath); err != nil {
			return nil, err
		}
	}

	override(&config)

	config.trimFiledSpace()

	if err := config.valid(); err != nil {
		return nil, err
	}
	StoreGlobalConfig(config)
	return &config, nil
}

func (c *Config) trimFiledSpace() {
	c.CSVDir = strings.TrimSpace(c.CSVDir)
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)
	c.Storage.DocDBBackend = strings.ToLower(strings.TrimSpace(c.Storage.DocDBBackend))
	c.Report.ArchivalYearPrefix = strings.TrimSpace(c.Report.ArchivalYearPrefix)
	c.Metrics.TextFile = strings.TrimSpace(c.Metrics.TextFile)
}

func (c *Config) Load(fileName string) error {
	if _, err := toml.DecodeFile(fileName, c); err != nil {
		return errors.Wrapf(err, "failed to decode config file %s", fileName)
	}
	return nil
}

func (c *Config) valid() error {
	if len(c.CSVDir) == 0 {
		return errors.New("unexpected empty csv-dir")
	}

	if err := c.Log.valid(); err != nil {
		return err
	}

	if err := c.Storage.valid(); err != nil {
		return err
	}

	if !c.Report.Valid() {
		return errors.Errorf("report config is invalid: %+v", c.Report)
	}

	return nil
}

const (
	DocDBBackendSQLite = "sqlite"
	DocDBBackendGenji  = "genji"
	DocDBBackendMemory = "memory"
)

type Storage struct {
	Path                 string `toml:"path" json:"path"`
	DocDBBackend         string `toml:"docdb-backend" json:"docdb_backend"`
	SessionRetentionSecs int64  `toml:"session-retention-secs" json:"session_retention_secs"`
}

func (s *Storage) valid() error {
	switch s.DocDBBackend {
	case DocDBBackendSQLite, DocDBBackendGenji:
		if len(s.Path) == 0 {
			return errors.New("unexpected empty storage path")
		}
	case DocDBBackendMemory:
	default:
		return errors.Errorf("storage docdb-backend should be %s, %s or %s", DocDBBackendSQLite, DocDBBackendGenji, DocDBBackendMemory)
	}

	if s.SessionRetentionSecs < 0 {
		return errors.Errorf("unexpected negative session-retention-secs %d", s.SessionRetentionSecs)
	}

	return nil
}

type Log struct {
	Path  string `toml:"path" json:"path"`
	Level string `toml:"level" json:"level"`
}

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

func (l *Log) valid() error {
	if len(l.Level) == 0 {
		return errors.New("unexpected empty log level")
	}

	switch l.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return errors.Errorf("log level should be %s, %s, %s or %s", LevelDebug, LevelInfo, LevelWarn, LevelError)
	}

	return nil
}

func (l *Log) InitDefaultLogger() {
	cfg := &log.Config{Level: strings.ToLower(l.Level)}
	var (
		logger *zap.Logger
		p      *log.ZapProperties
		err    error
	)
	if l.Path != "" {
		cfg.File = log.FileLogConfig{Filename: path.Join(l.Path, "ora-monitoring.log")}
		logger, p, err = log.InitLogger(cfg)
	} else {
		// stdout carries command output
		logger, p, err = log.InitLoggerWithWriteSyncer(cfg, zapcore.AddSync(os.Stderr), zapcore.AddSync(os.Stderr))
	}
	if err != nil {
		stdlog.Fatalf("Failed to init logger, err: %v", err)
	}
	log.ReplaceGlobals(logger, p)
}

// Report holds the options that change how reports are computed. It is the
// only module that can be modified at runtime and persisted.
type Report struct {
	// SynthesizeTrend fabricates an hourly wait trend when no trend file
	// exists. Off by default so that reports stay deterministic.
	SynthesizeTrend    bool   `toml:"synthesize-trend" json:"synthesize_trend"`
	TrendSeed          int64  `toml:"trend-seed" json:"trend_seed"`
	ArchivalYearPrefix string `toml:"archival-year-prefix" json:"archival_year_prefix"`
	ClampWaitScore     bool   `toml:"clamp-wait-score" json:"clamp_wait_score"`
	TopN               int    `toml:"top-n" json:"top_n"`
	GraphMaxNodes      int    `toml:"graph-max-nodes" json:"graph_max_nodes"`
	GraphMaxEdges      int    `toml:"graph-max-edges" json:"graph_max_edges"`
}

func (r Report) Valid() bool {
	if r.TopN <= 0 || r.GraphMaxNodes <= 0 || r.GraphMaxEdges <= 0 {
		return false
	}
	if len(r.ArchivalYearPrefix) == 0 {
		return false
	}
	return true
}

type Metrics struct {
	// TextFile is written in the Prometheus text format after every run
	// when not empty.
	TextFile string `toml:"textfile" json:"textfile"`
}
