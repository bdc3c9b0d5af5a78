package database

import (
	"context"
	"os"

	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/database/docdb"

	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Open opens the document database chosen by cfg.Storage. A nil DocDB with a
// nil error means the memory backend is configured and nothing is persisted.
func Open(ctx context.Context, cfg *config.Config) (docdb.DocDB, error) {
	var (
		db  docdb.DocDB
		err error
	)
	switch cfg.Storage.DocDBBackend {
	case config.DocDBBackendMemory:
		log.Info("document database disabled, scores are kept in memory")
		return nil, nil
	case config.DocDBBackendGenji:
		if err = os.MkdirAll(cfg.Storage.Path, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create storage path %s", cfg.Storage.Path)
		}
		db, err = docdb.NewGenjiDB(ctx, &docdb.GenjiConfig{
			Path:         cfg.Storage.Path,
			LogPath:      cfg.Log.Path,
			LogLevel:     cfg.Log.Level,
			BadgerConfig: docdb.DefaultBadgerConfig(),
		})
	default:
		if err = os.MkdirAll(cfg.Storage.Path, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create storage path %s", cfg.Storage.Path)
		}
		db, err = docdb.NewSQLiteDB(cfg.Storage.Path, true)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s document database", cfg.Storage.DocDBBackend)
	}

	log.Info("Initialize database successfully",
		zap.String("backend", cfg.Storage.DocDBBackend),
		zap.String("path", cfg.Storage.Path))
	return db, nil
}
