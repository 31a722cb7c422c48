// Package dataprep loads the car-sales CSV, canonicalizes its header,
// drops rows whose target price is not numeric and writes the result back.
package dataprep

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"carprice/internal/common/errors"
)

const utf8BOM = "\ufeff"

// Record is one row keyed by column name. A missing value is "".
type Record map[string]string

// Table keeps the header order alongside the rows so a save reproduces it.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Load reads a comma-delimited file with a header row. An empty file yields
// an empty table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(path, err)
		}
		return nil, errors.NewDatasetReadError(path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, errors.NewDatasetReadError(path, err)
	}
	return table, nil
}

// Read parses CSV from r. Short rows are padded with missing values and
// cells beyond the header are ignored.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{Columns: []string{}, Rows: []Record{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := &Table{
		Columns: append([]string(nil), header...),
		Rows:    []Record{},
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(Record, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Save writes the table to path, replacing any existing file. A replaced
// file keeps its permissions; a new one is created 0644.
func Save(t *Table, path string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewDatasetWriteError(path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(tmp, t); err != nil {
		tmp.Close()
		return errors.NewDatasetWriteError(path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.NewDatasetWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewDatasetWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.NewDatasetWriteError(path, err)
	}
	return nil
}

// Write serializes the table as CSV to w.
func Write(w io.Writer, t *Table) error {
	// csv.Writer reuses buf, so raw writes below stay in order.
	buf := bufio.NewWriter(w)
	writer := csv.NewWriter(buf)
	if len(t.Columns) > 0 {
		if err := writeLine(buf, writer, t.Columns); err != nil {
			return err
		}
	}

	line := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			line[i] = row[col]
		}
		if err := writeLine(buf, writer, line); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeLine quotes a lone empty field; written bare it would be a blank
// line, which readers skip.
func writeLine(buf *bufio.Writer, writer *csv.Writer, line []string) error {
	if len(line) == 1 && line[0] == "" {
		_, err := buf.WriteString("\"\"\n")
		return err
	}
	return writer.Write(line)
}

// OutputPath derives the sibling path for the cleaned file, e.g.
// data/cars.csv -> data/cars_processed.csv.
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = ".csv"
	}
	return stem + suffix + ext
}
