package docdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDocDB(t *testing.T, db DocDB) {
	ctx := context.Background()
	if deadline, ok := t.Deadline(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	err := db.SaveConfig(ctx, map[string]string{"test_k": "test_v"})
	require.NoError(t, err)

	cfgs, err := db.LoadConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"test_k": "test_v"}, cfgs)

	require.NoError(t, db.WriteScore(ctx, "s1", "health_score", 42))
	require.NoError(t, db.WriteScore(ctx, "s1", "wait_score", -10))
	require.NoError(t, db.WriteScore(ctx, "s2", "summary_score", 15))
	// overwrite
	require.NoError(t, db.WriteScore(ctx, "s1", "health_score", 43))

	scores := map[string]int64{}
	err = db.QueryScores(ctx, "s1", func(report string, score int64) error {
		scores[report] = score
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"health_score": 43, "wait_score": -10}, scores)

	var sessions []string
	err = db.QuerySessions(ctx, func(sessionID string, updatedAtTs int64) error {
		sessions = append(sessions, sessionID)
		require.Greater(t, updatedAtTs, int64(0))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, sessions)

	require.NoError(t, db.DeleteSession(ctx, "s1"))
	scores = map[string]int64{}
	err = db.QueryScores(ctx, "s1", func(report string, score int64) error {
		scores[report] = score
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, scores)

	require.NoError(t, db.DeleteSessionsBeforeTs(ctx, time.Now().Unix()+100))
	sessions = sessions[:0]
	err = db.QuerySessions(ctx, func(sessionID string, updatedAtTs int64) error {
		sessions = append(sessions, sessionID)
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, sessions)
}
