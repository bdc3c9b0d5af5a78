package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/genjidb/genji"
	"github.com/genjidb/genji/engine/badgerengine"
	"github.com/stretchr/testify/require"
)

func badgerOptions(storagePath string) badger.Options {
	return badger.DefaultOptions(storagePath).
		WithZSTDCompressionLevel(3).
		WithBlockSize(8 * 1024).
		WithValueThreshold(128 * 1024).
		WithLogger(nil)
}

func NewGenjiDB(t *testing.T, storagePath string) *genji.DB {
	engine, err := badgerengine.NewEngine(badgerOptions(storagePath))
	require.NoError(t, err)
	db, err := genji.New(context.Background(), engine)
	require.NoError(t, err)
	return db
}

func NewBadgerDB(t *testing.T, storagePath string) *badger.DB {
	db, err := badger.Open(badgerOptions(storagePath))
	require.NoError(t, err)
	return db
}

// WriteCSVDir creates a temporary snapshot directory holding the given files.
func WriteCSVDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
	return dir
}
