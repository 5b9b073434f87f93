// Package sheet loads tabular booking data into records and describes its shape. Spreadsheets (.xlsx), CSV and JSON
// arrays of objects are supported.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bookingdash/dashtool/record"
)

// ErrUnsupported is returned for file extensions Load does not know.
var ErrUnsupported = errors.New("unsupported file type")

// Load reads records from path, choosing the reader by extension. For spreadsheets and CSV the first row is the header.
func Load(path string) ([]record.Record, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return record.DecodeRecords(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// LoadXLSX reads the first sheet of a workbook.
func LoadXLSX(path string) ([]record.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows), nil
}

// ReadCSV reads comma-separated rows. Rows may have differing lengths.
func ReadCSV(r io.Reader) ([]record.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// fromRows turns a header row plus data rows into records. Blank header cells are named "Unnamed: <index>" and
// repeated names get a ".1", ".2", ... suffix. Cells missing at the end of a short row are stored as nil; fully blank
// rows are skipped.
func fromRows(rows [][]string) []record.Record {
	records := make([]record.Record, 0)
	if len(rows) == 0 {
		return records
	}

	header := make([]string, len(rows[0]))
	seen := make(map[string]int)
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			base := h
			for {
				n++
				h = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[h]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[h] = 0
		header[i] = h
	}

	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		r := make(record.Record, 0, len(header))
		for i, key := range header {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			r = r.Set(key, Cell(cell))
		}
		records = append(records, r)
	}
	return records
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Cell converts a raw cell string into a typed value: nil when empty, int64 for integers, float64 for other numbers,
// otherwise the string itself. Codes such as "01234" or "+44" stay strings so they are written back unchanged.
func Cell(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if textual(t) {
		return s
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// textual reports whether a numeric-looking cell is really a code: a leading "+" or a leading zero that is not
// followed by a decimal point.
func textual(t string) bool {
	if t[0] == '+' {
		return true
	}
	t = strings.TrimPrefix(t, "-")
	return len(t) > 1 && t[0] == '0' && t[1] != '.'
}
