package session

import (
	"context"
	"testing"
	"time"

	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/database/docdb"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	scores, err := s.Scores(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, scores)

	require.NoError(t, s.Put(ctx, "s1", "summary_score", 15))
	require.NoError(t, s.Put(ctx, "s1", "health_score", 40))
	require.NoError(t, s.Put(ctx, "s1", "summary_score", 14))
	require.NoError(t, s.Put(ctx, "s2", "wait_score", -5))

	scores, err = s.Scores(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"summary_score": 14, "health_score": 40}, scores)

	infos, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "s1", infos[0].ID)
	require.Equal(t, "s2", infos[1].ID)
	require.Greater(t, infos[0].UpdatedAtTs, int64(0))

	require.NoError(t, s.Reset(ctx, "s1"))
	scores, err = s.Scores(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, scores)

	require.NoError(t, s.Close())
	require.Equal(t, ErrStoreIsClosed, s.Put(ctx, "s1", "summary_score", 1))
	_, err = s.Scores(ctx, "s1")
	require.Equal(t, ErrStoreIsClosed, err)
	_, err = s.Sessions(ctx)
	require.Equal(t, ErrStoreIsClosed, err)
	require.Equal(t, ErrStoreIsClosed, s.Reset(ctx, "s1"))
}

func TestMemStore(t *testing.T) {
	testStore(t, NewMemStore())
}

func TestDocDBStore(t *testing.T) {
	db, err := docdb.NewSQLiteDB(t.TempDir(), true)
	require.NoError(t, err)
	defer db.Close()

	s := NewDocDBStore(context.Background(), db)
	testStore(t, s)
	// closing twice is fine
	require.NoError(t, s.Close())
}

func TestSafePoint(t *testing.T) {
	_, ok := getSafePointTs(0)
	require.False(t, ok)

	ts, ok := getSafePointTs(60)
	require.True(t, ok)
	require.InDelta(t, time.Now().Unix()-60, ts, 2)
}

type gcRecorder struct {
	docdb.DocDB
	safePoints chan int64
}

func (r *gcRecorder) DeleteSessionsBeforeTs(ctx context.Context, ts int64) error {
	r.safePoints <- ts
	return r.DocDB.DeleteSessionsBeforeTs(ctx, ts)
}

func TestDocDBStoreRetentionChange(t *testing.T) {
	defer config.StoreGlobalConfig(config.GetDefaultConfig())
	cfg := config.GetDefaultConfig()
	cfg.Storage.SessionRetentionSecs = 0
	config.StoreGlobalConfig(cfg)

	db, err := docdb.NewSQLiteDB(t.TempDir(), false)
	require.NoError(t, err)
	defer db.Close()
	rec := &gcRecorder{DocDB: db, safePoints: make(chan int64, 4)}

	s := NewDocDBStore(context.Background(), rec)
	defer s.Close()

	// a change elsewhere in the config does not trigger gc
	config.UpdateGlobalConfig(func(c config.Config) config.Config {
		c.Report.TopN = 3
		return c
	})
	config.UpdateGlobalConfig(func(c config.Config) config.Config {
		c.Storage.SessionRetentionSecs = 3600
		return c
	})

	select {
	case ts := <-rec.safePoints:
		require.InDelta(t, time.Now().Unix()-3600, ts, 5)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "gc did not run after retention changed")
	}
	require.NoError(t, s.Close())
	require.Empty(t, rec.safePoints)
}
