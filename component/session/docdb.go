package session

import (
	"context"
	"sync"
	"time"

	"github.com/dbwatch/ora-monitoring/config"
	"github.com/dbwatch/ora-monitoring/database/docdb"
	"github.com/dbwatch/ora-monitoring/utils"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	gcInterval = time.Minute * 10

	writeRetryTimes     = 3
	writeRetryFirstWait = 20 * time.Millisecond
)

// DocDBStore persists scores in a document database so that a session
// survives across runs. Sessions idle for longer than the configured
// retention are removed by a background GC loop.
type DocDBStore struct {
	closed atomic.Bool
	db     docdb.DocDB

	retentionSecs  int64
	configChangeCh config.Subscriber

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Store = &DocDBStore{}

func NewDocDBStore(ctx context.Context, db docdb.DocDB) *DocDBStore {
	cfgSub := config.Subscribe()
	getCurCfg := <-cfgSub
	s := &DocDBStore{
		db:             db,
		retentionSecs:  getCurCfg().Storage.SessionRetentionSecs,
		configChangeCh: cfgSub,
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go utils.GoWithRecovery(func() {
		defer s.wg.Done()
		s.doGCLoop()
	}, nil)
	return s
}

func (s *DocDBStore) Put(ctx context.Context, sessionID, key string, score int64) error {
	if s.closed.Load() {
		return ErrStoreIsClosed
	}
	var err error
	utils.WithRetryBackoff(ctx, writeRetryTimes, writeRetryFirstWait, func(retried uint) bool {
		err = s.db.WriteScore(ctx, sessionID, key, score)
		if err != nil {
			log.Warn("failed to write session score",
				zap.String("session", sessionID),
				zap.String("key", key),
				zap.Uint("retried", retried),
				zap.Error(err))
		}
		return err == nil
	})
	return err
}

func (s *DocDBStore) Scores(ctx context.Context, sessionID string) (map[string]int64, error) {
	if s.closed.Load() {
		return nil, ErrStoreIsClosed
	}
	res := make(map[string]int64)
	err := s.db.QueryScores(ctx, sessionID, func(report string, score int64) error {
		res[report] = score
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocDBStore) Sessions(ctx context.Context) ([]Info, error) {
	if s.closed.Load() {
		return nil, ErrStoreIsClosed
	}
	var res []Info
	err := s.db.QuerySessions(ctx, func(sessionID string, updatedAtTs int64) error {
		res = append(res, Info{ID: sessionID, UpdatedAtTs: updatedAtTs})
		return nil
	})
	return res, err
}

func (s *DocDBStore) Reset(ctx context.Context, sessionID string) error {
	if s.closed.Load() {
		return ErrStoreIsClosed
	}
	return s.db.DeleteSession(ctx, sessionID)
}

// Close stops the GC loop. The underlying database is owned by the caller.
func (s *DocDBStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *DocDBStore) doGCLoop() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	// run gc when started.
	s.runGC()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runGC()
		case getCfg := <-s.configChangeCh:
			retentionSecs := getCfg().Storage.SessionRetentionSecs
			if retentionSecs == s.retentionSecs {
				continue
			}
			log.Info("session retention changed",
				zap.Int64("old", s.retentionSecs),
				zap.Int64("new", retentionSecs))
			s.retentionSecs = retentionSecs
			s.runGC()
		}
	}
}

func (s *DocDBStore) runGC() {
	safePointTs, ok := getSafePointTs(s.retentionSecs)
	if !ok {
		return
	}
	start := time.Now()
	if err := s.db.DeleteSessionsBeforeTs(s.ctx, safePointTs); err != nil {
		if s.ctx.Err() == nil {
			log.Error("gc delete expired sessions failed", zap.Error(err))
		}
		return
	}
	log.Debug("session gc finished",
		zap.Int64("safepoint", safePointTs),
		zap.Duration("cost", time.Since(start)))
}

// getSafePointTs returns the timestamp before which sessions expire. A zero
// retention keeps sessions forever.
func getSafePointTs(retentionSecs int64) (int64, bool) {
	if retentionSecs <= 0 {
		return 0, false
	}
	safePoint := time.Now().Add(time.Duration(-retentionSecs) * time.Second)
	return safePoint.Unix(), true
}
