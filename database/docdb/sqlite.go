package docdb

import (
	"context"
	"database/sql"
	"path"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type sqliteDB struct {
	db *sql.DB

	writeScoreStmt *sql.Stmt
}

func NewSQLiteDB(dbPath string, useWAL bool) (DocDB, error) {
	dbPath = path.Join(dbPath, "ora-sqlite.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite db %s", dbPath)
	}
	if useWAL {
		_, err := db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, err
		}
	}
	d := &sqliteDB{db: db}
	if err := d.tryInitTables(); err != nil {
		return nil, err
	}
	writeScoreSQL := `INSERT OR REPLACE INTO report_score (session_id, report, score, updated_at_ts) VALUES (?, ?, ?, ?)`
	d.writeScoreStmt, err = d.db.Prepare(writeScoreSQL)
	if err != nil {
		return nil, err
	}
	log.Info("open sqlite docdb", zap.String("path", dbPath), zap.Bool("wal", useWAL))
	return d, nil
}

func (d *sqliteDB) tryInitTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ora_monitoring_config (module TEXT primary key, config TEXT)`,
		`CREATE TABLE IF NOT EXISTS report_score (session_id VARCHAR(64), report VARCHAR(64), score INTEGER, updated_at_ts INTEGER, PRIMARY KEY (session_id, report))`,
		`CREATE INDEX IF NOT EXISTS idx_report_score_ts ON report_score (updated_at_ts)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqliteDB) Close() error {
	if d.writeScoreStmt != nil {
		_ = d.writeScoreStmt.Close()
	}
	return d.db.Close()
}

func (d *sqliteDB) SaveConfig(ctx context.Context, cfg map[string]string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM ora_monitoring_config`)
	if err != nil {
		return err
	}
	for module, data := range cfg {
		_, err = d.db.ExecContext(ctx, "INSERT INTO ora_monitoring_config (module, config) VALUES (?, ?)", module, data)
		if err != nil {
			return err
		}
		log.Info("save config into storage", zap.String("module", module), zap.String("config", data))
	}
	return nil
}

func (d *sqliteDB) LoadConfig(ctx context.Context) (map[string]string, error) {
	res, err := d.db.QueryContext(ctx, `SELECT module, config FROM ora_monitoring_config`)
	if err != nil {
		return nil, err
	}
	if res.Err() != nil {
		return nil, res.Err()
	}
	defer res.Close()
	cfgMap := make(map[string]string)
	for res.Next() {
		var module, config string
		if err := res.Scan(&module, &config); err != nil {
			return nil, err
		}
		cfgMap[module] = config
	}
	return cfgMap, nil
}

func (d *sqliteDB) WriteScore(ctx context.Context, sessionID, report string, score int64) error {
	now := time.Now().Unix()
	_, err := d.writeScoreStmt.ExecContext(ctx, sessionID, report, score, now)
	return err
}

func (d *sqliteDB) QueryScores(ctx context.Context, sessionID string, f func(report string, score int64) error) error {
	res, err := d.db.QueryContext(ctx, `SELECT report, score FROM report_score WHERE session_id = ?`, sessionID)
	if err != nil {
		return err
	}
	if res.Err() != nil {
		return res.Err()
	}
	defer res.Close()
	for res.Next() {
		var report string
		var score int64
		if err := res.Scan(&report, &score); err != nil {
			return err
		}
		if err := f(report, score); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqliteDB) QuerySessions(ctx context.Context, f func(sessionID string, updatedAtTs int64) error) error {
	res, err := d.db.QueryContext(ctx, `SELECT session_id, MAX(updated_at_ts) FROM report_score GROUP BY session_id ORDER BY session_id`)
	if err != nil {
		return err
	}
	if res.Err() != nil {
		return res.Err()
	}
	defer res.Close()
	for res.Next() {
		var sessionID string
		var ts int64
		if err := res.Scan(&sessionID, &ts); err != nil {
			return err
		}
		if err := f(sessionID, ts); err != nil {
			return err
		}
	}
	return nil
}

func (d *sqliteDB) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM report_score WHERE session_id = ?`, sessionID)
	return err
}

func (d *sqliteDB) DeleteSessionsBeforeTs(ctx context.Context, ts int64) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM report_score WHERE updated_at_ts < ?`, ts)
	return err
}
