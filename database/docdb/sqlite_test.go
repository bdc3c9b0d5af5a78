package docdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLite(t *testing.T) {
	db, err := NewSQLiteDB(t.TempDir(), true)
	require.NoError(t, err)
	testDocDB(t, db)
}
