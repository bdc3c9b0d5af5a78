package docdb

import (
	"runtime"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/pingcap/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	gcInterval           = 10 * time.Minute
	flattenInterval      = 24 * time.Hour
	maxValueLogRewrites  = 10
	valueLogDiscardRatio = 0.1
)

var lastFlattenKey = []byte("last_flatten_ts")

// badgerGC reclaims the value log of the genji backend. Scores are replaced
// in place, so old versions are flattened away once a day before the value
// log can shrink.
type badgerGC struct {
	db     *badger.DB
	closed chan struct{}
}

func (g *badgerGC) loop() {
	log.Info("badger gc loop started")
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		g.runOnce(time.Now())
		select {
		case <-ticker.C:
		case <-g.closed:
			log.Info("badger gc loop stopped")
			return
		}
	}
}

func (g *badgerGC) runOnce(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic when running badger gc", zap.Reflect("r", r), zap.Stack("stack trace"))
		}
	}()
	if g.flattenDue(now) {
		g.flatten(now)
	}
	g.rewriteValueLog()
}

// rewriteValueLog returns the number of rewritten value log files.
func (g *badgerGC) rewriteValueLog() int {
	n := 0
	for ; n < maxValueLogRewrites; n++ {
		err := g.db.RunValueLogGC(valueLogDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			log.Warn("badger value log gc failed", zap.Error(err))
			break
		}
	}
	log.Debug("badger value log gc finished", zap.Int("rewritten", n))
	return n
}

func (g *badgerGC) flattenDue(now time.Time) bool {
	last, err := g.lastFlatten()
	if err != nil {
		log.Warn("failed to read last badger flatten time", zap.Error(err))
	}
	return now.Sub(last) >= flattenInterval
}

func (g *badgerGC) flatten(now time.Time) {
	if err := g.db.Flatten(runtime.NumCPU()/2 + 1); err != nil {
		log.Warn("badger flatten failed", zap.Error(err))
		return
	}
	if err := g.markFlattened(now); err != nil {
		log.Warn("failed to save badger flatten time", zap.Error(err))
		return
	}
	log.Info("badger flattened", zap.Time("at", now))
}

// lastFlatten is the zero unix time when the store was never flattened.
func (g *badgerGC) lastFlatten() (time.Time, error) {
	var ts int64
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lastFlattenKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			ts, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
	})
	return time.Unix(ts, 0), err
}

func (g *badgerGC) markFlattened(at time.Time) error {
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(lastFlattenKey, []byte(strconv.FormatInt(at.Unix(), 10)))
	})
}
