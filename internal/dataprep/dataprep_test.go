package dataprep

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carprice/internal/common/errors"
	"carprice/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func priceTable(values ...string) *Table {
	table := &Table{Columns: []string{"Car Price"}}
	for _, v := range values {
		table.Rows = append(table.Rows, Record{"Car Price": v})
	}
	return table
}

// ==========================
// Load / Save
// ==========================

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	stdErr, _ := errors.AsStandard(err)
	assert.True(t, stdErr.Fatal())
}

func TestLoad_EmptyFile(t *testing.T) {
	table, err := Load(writeCSV(t, ""))

	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Columns)
}

func TestLoad_PadsShortRowsAndStripsBOM(t *testing.T) {
	table, err := Load(writeCSV(t, "\ufeffBrand,Year,Car Price\ntoyota,2018\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Brand", "Year", "Car Price"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, Record{"Brand": "toyota", "Year": "2018", "Car Price": ""}, table.Rows[0])
}

func TestLoad_QuotedFields(t *testing.T) {
	table, err := Load(writeCSV(t, "Model,Car Price\n\"Camry, LE\",15000\n"))

	require.NoError(t, err)
	assert.Equal(t, "Camry, LE", table.Rows[0]["Model"])
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
	}{
		{
			name: "quoted values",
			table: &Table{
				Columns: []string{"MODEL", "CAR_PRICE", "BRAND"},
				Rows: []Record{
					{"MODEL": "camry", "CAR_PRICE": "15000", "BRAND": "toyota"},
					{"MODEL": "model, \"s\"", "CAR_PRICE": "22000.5", "BRAND": ""},
				},
			},
		},
		{
			name: "single column with empty value",
			table: &Table{
				Columns: []string{"A"},
				Rows:    []Record{{"A": "1"}, {"A": ""}, {"A": "2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")

			require.NoError(t, Save(tt.table, path))
			loaded, err := Load(path)

			require.NoError(t, err)
			assert.Equal(t, tt.table.Columns, loaded.Columns)
			assert.Equal(t, tt.table.Rows, loaded.Rows)
		})
	}
}

func TestWrite_QuotesLoneEmptyField(t *testing.T) {
	var sb strings.Builder

	require.NoError(t, Write(&sb, &Table{Columns: []string{"A"}, Rows: []Record{{"A": "1"}, {"A": ""}}}))
	assert.Equal(t, "A\n1\n\"\"\n", sb.String())
}

func TestSave_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.csv")

	require.NoError(t, Save(priceTable("1"), fresh))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("X\n"), 0o640))
	require.NoError(t, os.Chmod(existing, 0o640))

	require.NoError(t, Save(priceTable("1"), existing))
	info, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestSave_Overwrites(t *testing.T) {
	path := writeCSV(t, "OLD\nstale\nstale\n")

	require.NoError(t, Save(&Table{Columns: []string{"NEW"}, Rows: []Record{{"NEW": "x"}}}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NEW\nx\n", string(data))
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(&Table{Columns: []string{"A"}}, filepath.Join(t.TempDir(), "nope", "out.csv"))

	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetWriteFailed))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, suffix, want string
	}{
		{"data/car_price_prediction_.csv", "_processed", "data/car_price_prediction__processed.csv"},
		{"cars.CSV", "_clean", "cars_clean.CSV"},
		{"cars", "_processed", "cars_processed.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.in, tt.suffix))
		})
	}
}

// ==========================
// Normalization
// ==========================

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Car Price":      "CAR_PRICE",
		"  engine size ": "ENGINE_SIZE",
		"Fuel  Type":     "FUEL__TYPE",
		"CAR_ID":         "CAR_ID",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestNormalizeColumns_Idempotent(t *testing.T) {
	inputs := []*Table{
		{Columns: []string{" Car Price ", "brand", "Engine Size"}, Rows: []Record{{" Car Price ": "1", "brand": "a", "Engine Size": "1.6"}}},
		{Columns: []string{"a b c", "\tTabbed\t", "ALREADY_OK"}, Rows: []Record{}},
		{Columns: []string{}, Rows: []Record{}},
	}
	for _, in := range inputs {
		once := NormalizeColumns(in)
		twice := NormalizeColumns(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeColumns_RewritesRowKeys(t *testing.T) {
	out := NormalizeColumns(priceTable("15000"))

	assert.Equal(t, []string{"CAR_PRICE"}, out.Columns)
	assert.Equal(t, "15000", out.Rows[0]["CAR_PRICE"])
}

func TestNormalizeColumns_CollisionLaterWins(t *testing.T) {
	in := &Table{
		Columns: []string{"Car Price", "CAR_PRICE"},
		Rows:    []Record{{"Car Price": "1", "CAR_PRICE": "2"}},
	}

	out := NormalizeColumns(in)

	assert.Equal(t, []string{"CAR_PRICE"}, out.Columns)
	assert.Equal(t, "2", out.Rows[0]["CAR_PRICE"])
}

// ==========================
// Target validation
// ==========================

func TestValidateTarget_Scenario(t *testing.T) {
	normalized := NormalizeColumns(priceTable("15000", "n/a", "22000.5"))
	require.Equal(t, []string{"CAR_PRICE"}, normalized.Columns)

	cleaned, report, err := ValidateTarget(normalized, "Car Price")

	require.NoError(t, err)
	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "15000", cleaned.Rows[0]["CAR_PRICE"])
	assert.Equal(t, "22000.5", cleaned.Rows[1]["CAR_PRICE"])
	assert.Equal(t, Report{Target: "CAR_PRICE", Total: 3, Missing: 1, Retained: 2}, report)
}

func TestValidateTarget_ShortTargetName(t *testing.T) {
	normalized := NormalizeColumns(priceTable("15000", "n/a", "22000.5"))

	cleaned, report, err := ValidateTarget(normalized, "price")

	require.NoError(t, err)
	assert.Equal(t, "CAR_PRICE", report.Target)
	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "15000", cleaned.Rows[0]["CAR_PRICE"])
	assert.Equal(t, "22000.5", cleaned.Rows[1]["CAR_PRICE"])
}

func TestResolveTarget(t *testing.T) {
	cols := []string{"CAR_ID", "CAR_PRICE", "LIST_PRICE", "YEAR"}

	got, ok := ResolveTarget(cols, "year")
	assert.True(t, ok)
	assert.Equal(t, "YEAR", got)

	got, ok = ResolveTarget(cols, "car price")
	assert.True(t, ok)
	assert.Equal(t, "CAR_PRICE", got)

	_, ok = ResolveTarget(cols, "price")
	assert.False(t, ok, "ambiguous suffix must not resolve")

	_, ok = ResolveTarget(cols, "")
	assert.False(t, ok)
}

func TestValidateTarget_SchemaError(t *testing.T) {
	normalized := NormalizeColumns(priceTable("15000"))

	_, _, err := ValidateTarget(normalized, "cost")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSchema))
	assert.Contains(t, err.Error(), "COST")
}

func TestValidateTarget_AllMissingIsNotFatal(t *testing.T) {
	cleaned, report, err := ValidateTarget(NormalizeColumns(priceTable("", "abc", "NaN", "inf")), "car price")

	require.NoError(t, err)
	assert.Equal(t, 0, cleaned.Len())
	assert.Equal(t, 4, report.Missing)
	assert.Equal(t, []string{"CAR_PRICE"}, cleaned.Columns)
}

func TestValidateTarget_RetainedRowsAreFinite(t *testing.T) {
	cleaned, _, err := ValidateTarget(NormalizeColumns(priceTable(" 12 ", "1e3", "-Inf", "", "3.50", "1,000")), "CAR_PRICE")
	require.NoError(t, err)

	for _, row := range cleaned.Rows {
		_, ok := ParseNumber(row["CAR_PRICE"])
		assert.True(t, ok, "retained value %q", row["CAR_PRICE"])
	}
	got := make([]string, 0, cleaned.Len())
	for _, row := range cleaned.Rows {
		got = append(got, row["CAR_PRICE"])
	}
	assert.Equal(t, []string{"12", "1000", "3.5"}, got)
}

func TestValidateTarget_DoesNotMutateInput(t *testing.T) {
	in := NormalizeColumns(priceTable(" 7 "))

	_, _, err := ValidateTarget(in, "CAR_PRICE")

	require.NoError(t, err)
	assert.Equal(t, " 7 ", in.Rows[0]["CAR_PRICE"])
}

// ==========================
// Choices
// ==========================

func TestChoices(t *testing.T) {
	table := &Table{
		Columns: []string{"BRAND", "YEAR"},
		Rows: []Record{
			{"BRAND": " toyota", "YEAR": "2018"},
			{"BRAND": "bmw", "YEAR": "2010"},
			{"BRAND": "toyota ", "YEAR": ""},
		},
	}

	got := Choices(table, "BRAND", "YEAR", "MODEL")

	assert.Equal(t, []string{"bmw", "toyota"}, got["BRAND"])
	assert.Equal(t, []string{"2010", "2018"}, got["YEAR"])
	assert.Empty(t, got["MODEL"])
}

// ==========================
// Service
// ==========================

func TestService_Prepare(t *testing.T) {
	in := writeCSV(t, "Car ID,Brand,Car Price\n1,toyota,15000\n2,bmw,n/a\n3,audi,22000.5\n")
	out := OutputPath(in, "_processed")

	report, err := NewService(logger.NewTestLogger(t)).Prepare(context.Background(), in, out, "car price")

	require.NoError(t, err)
	assert.Equal(t, 2, report.Retained)
	assert.Equal(t, 1, report.Missing)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"CAR_ID,BRAND,CAR_PRICE", "1,toyota,15000", "3,audi,22000.5"}, lines)
}

func TestService_Prepare_InPlace(t *testing.T) {
	in := writeCSV(t, "Car Price\n5\nx\n")

	_, err := NewService(logger.NewNoOpLogger()).Prepare(context.Background(), in, in, "CAR_PRICE")

	require.NoError(t, err)
	data, _ := os.ReadFile(in)
	assert.Equal(t, "CAR_PRICE\n5\n", string(data))
}

func TestService_Prepare_Errors(t *testing.T) {
	svc := NewService(logger.NewNoOpLogger())

	_, err := svc.Prepare(context.Background(), filepath.Join(t.TempDir(), "none.csv"), "out.csv", "CAR_PRICE")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	in := writeCSV(t, "Brand\ntoyota\n")
	_, err = svc.Prepare(context.Background(), in, in+".out", "CAR_PRICE")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSchema))
	_, statErr := os.Stat(in + ".out")
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_Prepare_Cancelled(t *testing.T) {
	in := writeCSV(t, "Car Price\n5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(logger.NewNoOpLogger()).Prepare(ctx, in, in+".out", "CAR_PRICE")

	assert.ErrorIs(t, err, context.Canceled)
}
