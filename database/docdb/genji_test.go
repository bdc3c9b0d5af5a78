package docdb

import (
	"os"
	"testing"
	"time"

	"github.com/dbwatch/ora-monitoring/utils/testutil"

	"github.com/stretchr/testify/require"
)

func TestGenji(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "ora-test-.*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	db, err := NewGenjiDBFromGenji(testutil.NewGenjiDB(t, dir))
	require.NoError(t, err)
	testDocDB(t, db)
}

func TestBadgerGC(t *testing.T) {
	db := testutil.NewBadgerDB(t, t.TempDir())
	defer db.Close()
	gc := &badgerGC{db: db, closed: make(chan struct{})}

	last, err := gc.lastFlatten()
	require.NoError(t, err)
	require.Equal(t, int64(0), last.Unix())

	now := time.Now()
	require.True(t, gc.flattenDue(now))
	require.NoError(t, gc.markFlattened(now))
	last, err = gc.lastFlatten()
	require.NoError(t, err)
	require.Equal(t, now.Unix(), last.Unix())
	require.False(t, gc.flattenDue(now.Add(time.Hour)))

	// a run right after a flatten only touches the value log
	gc.runOnce(now.Add(time.Hour))
	last, err = gc.lastFlatten()
	require.NoError(t, err)
	require.Equal(t, now.Unix(), last.Unix())

	later := now.Add(flattenInterval)
	require.True(t, gc.flattenDue(later))
	gc.runOnce(later)
	last, err = gc.lastFlatten()
	require.NoError(t, err)
	require.Equal(t, later.Unix(), last.Unix())

	require.LessOrEqual(t, gc.rewriteValueLog(), maxValueLogRewrites)

	done := make(chan struct{})
	go func() {
		gc.loop()
		close(done)
	}()
	close(gc.closed)
	<-done
}

func TestParseLoggingLevel(t *testing.T) {
	require.Equal(t, DEBUG, parseLoggingLevel("debug"))
	require.Equal(t, WARN, parseLoggingLevel("WARN"))
	require.Equal(t, ERROR, parseLoggingLevel("error"))
	require.Equal(t, INFO, parseLoggingLevel(""))
	require.Equal(t, INFO, parseLoggingLevel("unknown"))
}
