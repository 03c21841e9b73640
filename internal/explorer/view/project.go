// Package view selects and formats display columns over normalized records
// and reduces a page of records into summary stats. One projector serves
// all admin views; each view only supplies configuration (schema, columns,
// stats), never logic.
package view

import (
	"strconv"
	"strings"

	"github.com/mygymhq/adminboard/internal/explorer/document"
)

// maxAutoColumns caps the auto-detected column set so a collection without
// bespoke configuration cannot produce an unbounded table width.
const maxAutoColumns = 6

type ColumnSpec struct {
	Field string
	Label string
	// ZeroAsFree renders a zero amount as "Free" (price-like columns).
	ZeroAsFree bool
}

// TableView is the rendered page: kept columns plus one formatted string
// row per record. Every cell is a display-ready string, raw values never
// leak through.
type TableView struct {
	Columns []ColumnSpec
	Rows    [][]string
}

// Project renders records against the configured columns. Configured
// columns are filtered down to those present in at least one record of the
// page; their order is the configured order regardless of page content.
// Project does not mutate its inputs and is idempotent.
func Project(records []*document.Record, columns []ColumnSpec) TableView {
	kept := make([]ColumnSpec, 0, len(columns))
	for _, col := range columns {
		for _, rec := range records {
			if rec.Has(col.Field) {
				kept = append(kept, col)
				break
			}
		}
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, 0, len(kept))
		for _, col := range kept {
			row = append(row, FormatCell(col, rec))
		}
		rows = append(rows, row)
	}

	return TableView{Columns: kept, Rows: rows}
}

// AutoColumns detects a column set for collections without bespoke
// configuration: the union of non-identifier, non-internal field names
// across the page, in order of first appearance, capped at maxAutoColumns.
// Unlike the configured path, the resulting order depends on page content.
func AutoColumns(records []*document.Record) []ColumnSpec {
	var columns []ColumnSpec
	seen := make(map[string]bool)

	for _, rec := range records {
		for _, name := range rec.Names() {
			if len(columns) == maxAutoColumns {
				return columns
			}
			if seen[name] || internalField(name) {
				continue
			}
			if v, ok := rec.Value(name); ok && v.Kind == document.KindID {
				seen[name] = true
				continue
			}
			seen[name] = true
			columns = append(columns, ColumnSpec{Field: name, Label: labelFor(name)})
		}
	}

	return columns
}

func internalField(name string) bool {
	return strings.HasPrefix(name, "_") || name == "__v"
}

func labelFor(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// FormatCell formats a single cell. The dispatch is total: whatever value
// sits behind the column, the result is a display string, with missing and
// malformed values rendered as the sentinel.
func FormatCell(col ColumnSpec, rec *document.Record) string {
	v, ok := rec.Value(col.Field)
	if !ok {
		return document.Missing
	}

	switch v.Kind {
	case document.KindDate:
		return document.FormatDateTime(v.Time)
	case document.KindNumber, document.KindCount:
		if !v.HasNum {
			return document.Missing
		}
		if v.Num == 0 && col.ZeroAsFree {
			return "Free"
		}
		return groupThousands(v.Num)
	default:
		if v.Str == "" {
			return document.Missing
		}
		return document.Truncate(v.Str)
	}
}

// groupThousands formats a number with thousands separators; fractional
// parts are kept as-is.
func groupThousands(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
