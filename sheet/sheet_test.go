package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bookingdash/dashtool/record"
)

func TestCell(t *testing.T) {
	tcs := []struct {
		in     string
		expect any
	}{
		{in: "", expect: nil},
		{in: "   ", expect: nil},
		{in: "50", expect: int64(50)},
		{in: " 42 ", expect: int64(42)},
		{in: "543.38", expect: 543.38},
		{in: "£543.38", expect: "£543.38"},
		{in: "NaN", expect: "NaN"},
		{in: "Inf", expect: "Inf"},
		{in: "13/01/2025", expect: "13/01/2025"},
		{in: "0", expect: int64(0)},
		{in: "0.5", expect: 0.5},
		{in: "-0.25", expect: -0.25},
		{in: "01234", expect: "01234"},
		{in: "-012", expect: "-012"},
		{in: "007.5", expect: "007.5"},
		{in: "+447700900123", expect: "+447700900123"},
	}
	for _, tc := range tcs {
		assert.Equal(t, tc.expect, Cell(tc.in), "cell %q", tc.in)
	}
}

func TestReadCSV_LeadingZeros(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("postcode,Age\n01234,50\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Of("postcode", "01234", "Age", int64(50)), records[0])
}

func TestReadCSV_SuffixedHeaderCollision(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("a,a.1,a,a\nx,y,z,w\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Of("a", "x", "a.1", "y", "a.2", "z", "a.3", "w"), records[0])
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffdate,status,totals,Age,,status\n" +
		"13/01/2025,Booked,£543.38,50,x,dup\n" +
		",,,,,\n" +
		"14/01/2025,Completed\n"

	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"date", "status", "totals", "Age", "Unnamed: 4", "status.1"}, records[0].Keys())
	assert.Equal(t, record.Of(
		"date", "13/01/2025",
		"status", "Booked",
		"totals", "£543.38",
		"Age", int64(50),
		"Unnamed: 4", "x",
		"status.1", "dup",
	), records[0])

	v, ok := records[1].Get("totals")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.xlsx")
	writeWorkbook(t, path, [][]any{
		{"date", "status", "totals", "Age", "Region"},
		{"13/01/2025", "Booked", "£543.38", 50, "Ilford"},
		{"14/01/2025", "Completed", "£200.00", 35, "London"},
	})

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"date", "status", "totals", "Age", "Region"}, records[0].Keys())

	age, _ := records[0].Get("Age")
	assert.Equal(t, int64(50), age)
	region, _ := records[1].Get("Region")
	assert.Equal(t, "London", region)
}

func TestLoad_CSVAndJSON(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "bookings.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b\n1,x\n"), 0o644))
	records, err := Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []record.Record{record.Of("a", int64(1), "b", "x")}, records)

	jsonPath := filepath.Join(dir, "bookings.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"b":"x","a":"y"}]`), 0o644))
	records, err = Load(jsonPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"b", "a"}, records[0].Keys())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "bookings.ods"))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	records := []record.Record{
		record.Of("date", "13/01/2025", "Age", int64(50), "totals", 543.38, "note", nil),
		record.Of("date", "14/01/2025", "Age", int64(35), "totals", int64(200), "note", nil, "flag", true),
		record.Of("date", int64(20250115), "Age", nil, "totals", 150.5),
		record.Of("date", "16/01/2025"),
	}

	s := Inspect(records, 3)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, []Column{
		{Name: "date", Kind: KindMixed},
		{Name: "Age", Kind: KindInteger},
		{Name: "totals", Kind: KindFloat},
		{Name: "note", Kind: KindEmpty},
		{Name: "flag", Kind: KindBool},
	}, s.Columns)
	assert.Len(t, s.Preview, 3)
}

func TestInspect_PreviewBounds(t *testing.T) {
	records := []record.Record{record.Of("a", 1)}
	assert.Len(t, Inspect(records, 10).Preview, 1)
	assert.Len(t, Inspect(records, -1).Preview, 0)

	s := Inspect(nil, 3)
	assert.Equal(t, 0, s.Rows)
	assert.Empty(t, s.Columns)
	assert.Empty(t, s.Preview)
}

func TestSchema_WriteMarkdown(t *testing.T) {
	records := []record.Record{
		record.Of("date", "13/01/2025", "status", "Booked", "Age", int64(50)),
		record.Of("date", "14/01/2025", "status", "A|B", "Age", nil),
	}

	buf := new(bytes.Buffer)
	require.NoError(t, Inspect(records, 3).WriteMarkdown(buf))

	expect := `--- Columns ---
date, status, Age

--- First 2 Rows ---
| date       | status | Age |
|:-----------|:-------|:----|
| 13/01/2025 | Booked | 50  |
| 14/01/2025 | A\|B   |     |

--- Data Types ---
date    string
status  string
Age     integer
`
	assert.Equal(t, expect, buf.String())
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}
