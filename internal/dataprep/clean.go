package dataprep

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"carprice/internal/common/errors"
)

// Report summarizes a target validation pass.
type Report struct {
	Target   string `json:"target"`
	Total    int    `json:"total"`
	Missing  int    `json:"missing"`
	Retained int    `json:"retained"`
}

// NormalizeName trims, upper-cases and replaces spaces with underscores.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), " ", "_")
}

// NormalizeColumns returns a table whose column names are canonical. When two
// columns collapse to the same name the later one wins.
func NormalizeColumns(t *Table) *Table {
	out := &Table{
		Columns: make([]string, 0, len(t.Columns)),
		Rows:    make([]Record, len(t.Rows)),
	}

	renamed := make([]string, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	for i, col := range t.Columns {
		name := NormalizeName(col)
		renamed[i] = name
		if !seen[name] {
			seen[name] = true
			out.Columns = append(out.Columns, name)
		}
	}

	for r, row := range t.Rows {
		nr := make(Record, len(out.Columns))
		for i, col := range t.Columns {
			nr[renamed[i]] = row[col]
		}
		out.Rows[r] = nr
	}

	return out
}

// ParseNumber coerces a cell to a finite float. Empty, non-numeric, NaN and
// infinite values report false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ResolveTarget finds the column a target name refers to. An exact match on
// the normalized name wins; otherwise a single column ending in "_<NAME>"
// is accepted, so "price" finds CAR_PRICE. Ambiguous names do not resolve.
func ResolveTarget(columns []string, target string) (string, bool) {
	name := NormalizeName(target)
	if name == "" {
		return "", false
	}

	var suffixed []string
	for _, c := range columns {
		if c == name {
			return c, true
		}
		if strings.HasSuffix(c, "_"+name) {
			suffixed = append(suffixed, c)
		}
	}
	if len(suffixed) == 1 {
		return suffixed[0], true
	}
	return "", false
}

// ValidateTarget keeps only rows whose target parses as a finite number and
// rewrites the kept values in canonical decimal form. An all-missing column
// yields an empty table, not an error.
func ValidateTarget(t *Table, target string) (*Table, Report, error) {
	name, ok := ResolveTarget(t.Columns, target)
	if !ok {
		return nil, Report{}, errors.NewSchemaError(NormalizeName(target), t.Columns)
	}

	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, 0, len(t.Rows)),
	}
	report := Report{Target: name, Total: len(t.Rows)}

	for _, row := range t.Rows {
		v, ok := ParseNumber(row[name])
		if !ok {
			report.Missing++
			continue
		}
		kept := make(Record, len(row))
		for k, val := range row {
			kept[k] = val
		}
		kept[name] = strconv.FormatFloat(v, 'f', -1, 64)
		out.Rows = append(out.Rows, kept)
	}

	report.Retained = len(out.Rows)
	return out, report, nil
}

// Choices returns the sorted distinct non-empty values of each column.
// Unknown columns map to an empty list.
func Choices(t *Table, columns ...string) map[string][]string {
	out := make(map[string][]string, len(columns))
	for _, col := range columns {
		seen := map[string]bool{}
		values := []string{}
		for _, row := range t.Rows {
			v := strings.TrimSpace(row[col])
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		sort.Strings(values)
		out[col] = values
	}
	return out
}
