package sheet

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bookingdash/dashtool/record"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindBool    Kind = "bool"
	KindString  Kind = "string"
	KindMixed   Kind = "mixed"
)

// Column is a column name and its inferred kind.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Schema describes a set of records: its columns in first-seen order and a preview of the leading rows.
type Schema struct {
	Rows    int             `json:"rows"`
	Columns []Column        `json:"columns"`
	Preview []record.Record `json:"preview"`
}

// Inspect computes the schema of records, keeping previewRows rows for display.
func Inspect(records []record.Record, previewRows int) Schema {
	s := Schema{Rows: len(records), Columns: make([]Column, 0)}

	index := make(map[string]int)
	for _, r := range records {
		for _, f := range r {
			i, ok := index[f.Key]
			if !ok {
				i = len(s.Columns)
				index[f.Key] = i
				s.Columns = append(s.Columns, Column{Name: f.Key, Kind: KindEmpty})
			}
			s.Columns[i].Kind = widen(s.Columns[i].Kind, kindOf(f.Value))
		}
	}

	if previewRows < 0 {
		previewRows = 0
	}
	if previewRows > len(records) {
		previewRows = len(records)
	}
	s.Preview = records[:previewRows]
	return s
}

// ColumnNames returns the column names in order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

func kindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindEmpty
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case interface{ Int64() (int64, error) }:
		// json.Number
		if _, err := x.Int64(); err == nil {
			return KindInteger
		}
		return KindFloat
	default:
		return KindString
	}
}

// widen merges the kind seen so far with the kind of a new value. Empty values never change a column's kind, and
// integers widen to floats.
func widen(have, next Kind) Kind {
	switch {
	case next == KindEmpty || have == next:
		return have
	case have == KindEmpty:
		return next
	case have == KindInteger && next == KindFloat, have == KindFloat && next == KindInteger:
		return KindFloat
	default:
		return KindMixed
	}
}

// WriteMarkdown renders the column list, the preview as a Markdown table, and the column kinds.
func (s Schema) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	b.WriteString("--- Columns ---\n")
	fmt.Fprintf(&b, "%s\n", strings.Join(s.ColumnNames(), ", "))

	fmt.Fprintf(&b, "\n--- First %d Rows ---\n", len(s.Preview))
	if len(s.Columns) > 0 {
		writeTable(&b, s.ColumnNames(), s.Preview)
	}

	b.WriteString("\n--- Data Types ---\n")
	width := 0
	for _, c := range s.Columns {
		if n := utf8.RuneCountInString(c.Name); n > width {
			width = n
		}
	}
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "%-*s  %s\n", width, c.Name, c.Kind)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(b *strings.Builder, columns []string, rows []record.Record) {
	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = utf8.RuneCountInString(escapeCell(c))
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, c := range columns {
			v, ok := row.Get(c)
			s := ""
			if ok && v != nil {
				s = escapeCell(fmt.Sprint(v))
			}
			cells[r][i] = s
			if n := utf8.RuneCountInString(s); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(vals []string) {
		b.WriteString("|")
		for i, v := range vals {
			fmt.Fprintf(b, " %-*s |", widths[i], v)
		}
		b.WriteString("\n")
	}

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = escapeCell(c)
	}
	line(header)

	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(":" + strings.Repeat("-", w+1) + "|")
	}
	b.WriteString("\n")

	for _, row := range cells {
		line(row)
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
