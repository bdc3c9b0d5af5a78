// Package reader loads values and lines from the CSV snapshot files. Nothing
// here returns an error: a missing or broken file reads as empty.
package reader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// NotAvailable is returned by ReadFirstValidCell when no value can be read.
const NotAvailable = "N/A"

var headerCells = map[string]struct{}{
	"name":        {},
	"column_name": {},
	"value":       {},
	"":            {},
}

// ReadFirstValidCell returns the first cell of the first row that is not a
// header cell.
func ReadFirstValidCell(path string) string {
	f, err := os.Open(path)
	if err != nil {
		logOpenFailure(path, err)
		return NotAvailable
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		row, err := r.Read()
		if err == io.EOF {
			return NotAvailable
		}
		if err != nil {
			log.Debug("failed to read csv row", zap.String("file", path), zap.Error(err))
			return NotAvailable
		}
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if _, ok := headerCells[strings.ToLower(cell)]; ok {
			continue
		}
		return cell
	}
}

// ReadFirstRatio returns the first line, past any name/column header, that
// parses as a float. ok is false when no line does.
func ReadFirstRatio(path string) (ratio float64, ok bool) {
	for _, line := range ReadLines(path) {
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "name") || strings.HasPrefix(lower, "column") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.Debug("skip non-numeric ratio line", zap.String("file", path), zap.String("content", line))
			continue
		}
		return v, true
	}
	return 0, false
}

// ReadLines returns the trimmed, non-empty lines of path.
func ReadLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		logOpenFailure(path, err)
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ReadDataLines is ReadLines without '#' comment lines.
func ReadDataLines(path string) []string {
	lines := ReadLines(path)
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines[n] = line
		n++
	}
	return lines[:n]
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func logOpenFailure(path string, err error) {
	if os.IsNotExist(err) {
		log.Debug("snapshot file not found", zap.String("file", path))
		return
	}
	log.Warn("failed to open snapshot file", zap.String("file", path), zap.Error(err))
}
