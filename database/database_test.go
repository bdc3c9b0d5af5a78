package database

import (
	"context"
	"testing"

	"github.com/dbwatch/ora-monitoring/config"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.GetDefaultConfig()
	cfg.Storage.DocDBBackend = config.DocDBBackendMemory
	db, err := Open(ctx, &cfg)
	require.NoError(t, err)
	require.Nil(t, db)

	cfg.Storage.DocDBBackend = config.DocDBBackendSQLite
	cfg.Storage.Path = t.TempDir() + "/nested"
	db, err = Open(ctx, &cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	require.NoError(t, db.WriteScore(ctx, "s", "summary_score", 15))
	require.NoError(t, db.Close())
}
