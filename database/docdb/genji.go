package docdb

import (
	"context"
	"path"
	"sort"
	"time"

	"github.com/dbwatch/ora-monitoring/utils"

	"github.com/dgraph-io/badger/v3"
	"github.com/genjidb/genji"
	"github.com/genjidb/genji/document"
	"github.com/genjidb/genji/engine/badgerengine"
	"github.com/genjidb/genji/types"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type GenjiConfig struct {
	Path         string
	LogPath      string
	LogLevel     string
	BadgerConfig BadgerConfig
}

// BadgerConfig is the subset of badger options worth tuning for a store
// that only keeps a few rows per session.
type BadgerConfig struct {
	SyncWrites           bool
	NumVersionsToKeep    int
	MemTableSize         int64
	BlockCacheSize       int64
	ValueThreshold       int64
	ValueLogFileSize     int64
	ZSTDCompressionLevel int
}

func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		SyncWrites:           false,
		NumVersionsToKeep:    1,
		MemTableSize:         16 << 20,
		BlockCacheSize:       32 << 20,
		ValueThreshold:       1 << 20,
		ValueLogFileSize:     64<<20 - 1,
		ZSTDCompressionLevel: 1,
	}
}

type genjiDB struct {
	db      *genji.DB
	closeCh chan struct{}
}

func NewGenjiDB(ctx context.Context, cfg *GenjiConfig) (DocDB, error) {
	badger.DefaultIteratorOptions.PrefetchValues = false
	dataPath := path.Join(cfg.Path, "docdb")
	opts := badger.DefaultOptions(dataPath).
		WithSyncWrites(cfg.BadgerConfig.SyncWrites).
		WithNumVersionsToKeep(cfg.BadgerConfig.NumVersionsToKeep).
		WithMemTableSize(cfg.BadgerConfig.MemTableSize).
		WithBlockCacheSize(cfg.BadgerConfig.BlockCacheSize).
		WithValueThreshold(cfg.BadgerConfig.ValueThreshold).
		WithValueLogFileSize(cfg.BadgerConfig.ValueLogFileSize).
		WithZSTDCompressionLevel(cfg.BadgerConfig.ZSTDCompressionLevel)
	if l, err := initLogger(cfg.LogPath, cfg.LogLevel); err == nil {
		opts = opts.WithLogger(l)
	} else {
		opts = opts.WithLogger(nil)
	}
	engine, err := badgerengine.NewEngine(opts)
	if err != nil {
		return nil, err
	}
	d := &genjiDB{closeCh: make(chan struct{})}
	gc := &badgerGC{db: engine.DB, closed: d.closeCh}
	go utils.GoWithRecovery(gc.loop, nil)
	d.db, err = genji.New(ctx, engine)
	if err != nil {
		return nil, err
	}
	if err := d.tryInitTables(); err != nil {
		return nil, err
	}
	return d, nil
}

func NewGenjiDBFromGenji(g *genji.DB) (DocDB, error) {
	d := &genjiDB{db: g, closeCh: make(chan struct{})}
	if err := d.tryInitTables(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *genjiDB) tryInitTables() error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS ora_monitoring_config (module TEXT primary key, config TEXT)",
		"CREATE TABLE IF NOT EXISTS report_score (id TEXT primary key, session_id TEXT, report TEXT, score INTEGER, updated_at_ts INTEGER)",
	}
	for _, stmt := range stmts {
		if err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *genjiDB) Close() error {
	close(d.closeCh)
	return d.db.Close()
}

func (d *genjiDB) SaveConfig(ctx context.Context, cfg map[string]string) error {
	err := d.db.WithContext(ctx).Exec("DELETE FROM ora_monitoring_config")
	if err != nil {
		return err
	}
	for module, data := range cfg {
		err = d.db.WithContext(ctx).Exec("INSERT INTO ora_monitoring_config (module, config) VALUES (?, ?)", module, data)
		if err != nil {
			return err
		}
		log.Info("save config into storage", zap.String("module", module), zap.String("config", data))
	}
	return nil
}

func (d *genjiDB) LoadConfig(ctx context.Context) (map[string]string, error) {
	res, err := d.db.WithContext(ctx).Query("SELECT module, config FROM ora_monitoring_config")
	if err != nil {
		return nil, err
	}
	defer res.Close()
	cfgMap := make(map[string]string)
	err = res.Iterate(func(d types.Document) error {
		var module, cfg string
		err = document.Scan(d, &module, &cfg)
		if err != nil {
			return err
		}
		cfgMap[module] = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfgMap, nil
}

func scoreID(sessionID, report string) string {
	return sessionID + "/" + report
}

func (d *genjiDB) WriteScore(ctx context.Context, sessionID, report string, score int64) error {
	stmt := "INSERT INTO report_score (id, session_id, report, score, updated_at_ts) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO REPLACE"
	prepare, err := d.db.WithContext(ctx).Prepare(stmt)
	if err != nil {
		return err
	}
	return prepare.Exec(scoreID(sessionID, report), sessionID, report, score, time.Now().Unix())
}

func (d *genjiDB) QueryScores(ctx context.Context, sessionID string, f func(report string, score int64) error) error {
	res, err := d.db.WithContext(ctx).Query("SELECT report, score FROM report_score WHERE session_id = ?", sessionID)
	if err != nil {
		return err
	}
	defer res.Close()
	return res.Iterate(func(d types.Document) error {
		var report string
		var score int64
		if err := document.Scan(d, &report, &score); err != nil {
			return err
		}
		return f(report, score)
	})
}

func (d *genjiDB) QuerySessions(ctx context.Context, f func(sessionID string, updatedAtTs int64) error) error {
	res, err := d.db.WithContext(ctx).Query("SELECT session_id, updated_at_ts FROM report_score")
	if err != nil {
		return err
	}
	defer res.Close()
	latest := make(map[string]int64)
	err = res.Iterate(func(d types.Document) error {
		var sessionID string
		var ts int64
		if err := document.Scan(d, &sessionID, &ts); err != nil {
			return err
		}
		if cur, ok := latest[sessionID]; !ok || ts > cur {
			latest[sessionID] = ts
		}
		return nil
	})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := f(id, latest[id]); err != nil {
			return err
		}
	}
	return nil
}

func (d *genjiDB) DeleteSession(ctx context.Context, sessionID string) error {
	return d.db.WithContext(ctx).Exec("DELETE FROM report_score WHERE session_id = ?", sessionID)
}

func (d *genjiDB) DeleteSessionsBeforeTs(ctx context.Context, ts int64) error {
	return d.db.WithContext(ctx).Exec("DELETE FROM report_score WHERE updated_at_ts < ?", ts)
}
