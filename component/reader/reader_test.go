package reader

import (
	"path/filepath"
	"testing"

	"github.com/dbwatch/ora-monitoring/utils/testutil"

	"github.com/stretchr/testify/require"
)

func TestReadFirstValidCell(t *testing.T) {
	dir := testutil.WriteCSVDir(t, map[string]string{
		"name.csv":    "NAME\nORCLPDB\n",
		"headers.csv": "name\nvalue\ncolumn_name\n\n",
		"empty.csv":   "",
		"multi.csv":   "VALUE,extra\n  19.3.0.0 , x\nnext\n",
		"quoted.csv":  "\"a,b\",c\n",
	})

	require.Equal(t, "ORCLPDB", ReadFirstValidCell(filepath.Join(dir, "name.csv")))
	require.Equal(t, NotAvailable, ReadFirstValidCell(filepath.Join(dir, "headers.csv")))
	require.Equal(t, NotAvailable, ReadFirstValidCell(filepath.Join(dir, "empty.csv")))
	require.Equal(t, "19.3.0.0", ReadFirstValidCell(filepath.Join(dir, "multi.csv")))
	require.Equal(t, "a,b", ReadFirstValidCell(filepath.Join(dir, "quoted.csv")))
	require.Equal(t, NotAvailable, ReadFirstValidCell(filepath.Join(dir, "missing.csv")))
	// a directory can not be read as a file
	require.Equal(t, NotAvailable, ReadFirstValidCell(dir))
}

func TestReadFirstRatio(t *testing.T) {
	dir := testutil.WriteCSVDir(t, map[string]string{
		"ratio.csv":   "NAME\nColumn1\n\n 98.75 \n12\n",
		"spool.csv":   "HIT_RATIO\n----------\n98.5\n",
		"bad.csv":     "ratio\nn/a\n",
		"header.csv":  "name\n",
		"percent.csv": "99%\n",
	})

	v, ok := ReadFirstRatio(filepath.Join(dir, "ratio.csv"))
	require.True(t, ok)
	require.Equal(t, 98.75, v)

	// column headings of a sqlplus spool are skipped
	v, ok = ReadFirstRatio(filepath.Join(dir, "spool.csv"))
	require.True(t, ok)
	require.Equal(t, 98.5, v)

	_, ok = ReadFirstRatio(filepath.Join(dir, "bad.csv"))
	require.False(t, ok)
	_, ok = ReadFirstRatio(filepath.Join(dir, "header.csv"))
	require.False(t, ok)
	_, ok = ReadFirstRatio(filepath.Join(dir, "percent.csv"))
	require.False(t, ok)
	_, ok = ReadFirstRatio(filepath.Join(dir, "missing.csv"))
	require.False(t, ok)
}

func TestReadLines(t *testing.T) {
	dir := testutil.WriteCSVDir(t, map[string]string{
		"lines.csv": "  a b  \r\n\n# comment\nc\n",
	})

	path := filepath.Join(dir, "lines.csv")
	require.Equal(t, []string{"a b", "# comment", "c"}, ReadLines(path))
	require.Equal(t, []string{"a b", "c"}, ReadDataLines(path))
	require.Nil(t, ReadLines(filepath.Join(dir, "missing.csv")))
	require.Empty(t, ReadDataLines(filepath.Join(dir, "missing.csv")))
	require.True(t, Exists(path))
	require.False(t, Exists(filepath.Join(dir, "missing.csv")))
}
