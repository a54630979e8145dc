package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang-stock-sentiment/pkg/errors"
)

// csvTable is a fully read CSV with a trimmed header index.
type csvTable struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

// readCSV reads path, drops the zero-based physical rows in skipRows and
// takes the first remaining row as header.
func readCSV(path string, skipRows []int) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	skip := make(map[int]bool, len(skipRows))
	for _, r := range skipRows {
		skip[r] = true
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &csvTable{path: path}
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if skip[line] {
			continue
		}
		if table.header == nil {
			table.setHeader(record)
			continue
		}
		table.rows = append(table.rows, record)
	}

	if table.header == nil {
		return nil, errors.Wrapf(errors.ErrEmptyDataset, "%s has no header row", path)
	}
	return table, nil
}

func (t *csvTable) setHeader(record []string) {
	t.header = make([]string, len(record))
	t.index = make(map[string]int, len(record))
	for i, name := range record {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
}

func (t *csvTable) has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// require fails on the first absent column.
func (t *csvTable) require(columns ...string) error {
	for _, c := range columns {
		if !t.has(c) {
			return errors.Wrapf(errors.ErrMissingColumn, "%s: column %q", t.path, c)
		}
	}
	return nil
}

// value returns the trimmed cell, or "" for absent columns and short rows.
func (t *csvTable) value(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
