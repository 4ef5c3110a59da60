// Package table provides the in-memory tabular representation the cleaning
// engine operates on: an ordered set of named, typed columns of equal
// length, with nil as the designated missing marker.
//
// One orchestrator owns one Table for its lifetime. Every cleaning stage
// mutates the owned instance in place; the package performs no internal
// locking, so callers must serialize access.
package table

import (
	"github.com/scourdata/scour/pkg/errors"
	stringpool "github.com/scourdata/scour/pkg/strings"
)

// Table is an ordered sequence of columns sharing a row count. Row
// identity is positional and stable across in-place mutation; after row
// removal the indices are renumbered.
type Table struct {
	cols []*Column
}

// New creates an empty table.
func New() *Table {
	return &Table{}
}

// FromColumns creates a table over the given columns, validating that
// names are unique and lengths agree.
func FromColumns(cols ...*Column) (*Table, error) {
	t := New()
	for _, col := range cols {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column. The column's length must match the table's
// current row count (any length is accepted for the first column) and its
// name must be unique.
func (t *Table) AddColumn(col *Column) error {
	if t.Column(col.Name()) != nil {
		return errors.Newf(errors.ErrorTypeData, "duplicate column name %q", col.Name())
	}
	if len(t.cols) > 0 && col.Len() != t.NumRows() {
		return errors.Newf(errors.ErrorTypeData,
			"column %q has %d rows, table has %d", col.Name(), col.Len(), t.NumRows())
	}
	t.cols = append(t.cols, col)
	return nil
}

// NumRows returns the row count. A table with no columns has zero rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in order. The slice is shared; callers must
// not reorder it.
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, col := range t.cols {
		if col.Name() == name {
			return col
		}
	}
	return nil
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name()
	}
	return names
}

// Row appends the cells of row i to buf and returns it. Category columns
// decode transparently.
func (t *Table) Row(i int, buf []interface{}) []interface{} {
	for _, col := range t.cols {
		buf = append(buf, col.Value(i))
	}
	return buf
}

// RowKey writes a canonical representation of row i into b, treating two
// missing markers as equal. Used for duplicate detection.
func (t *Table) RowKey(i int, b *stringpool.Builder) string {
	b.Reset()
	for _, col := range t.cols {
		v := col.Value(i)
		if v == nil {
			b.WriteByte(0x00)
		} else {
			b.WriteByte(0x01)
			b.WriteString(stringpool.ValueToString(v))
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

// FilterRows removes every row i where keep[i] is false, preserving the
// relative order of the surviving rows across all columns. Returns the
// number of rows removed. len(keep) must equal NumRows.
func (t *Table) FilterRows(keep []bool) int {
	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	for _, col := range t.cols {
		col.filter(keep)
	}
	return removed
}

// EstimateBytes approximates the heap footprint of all stored cells.
func (t *Table) EstimateBytes() int64 {
	var size int64
	for _, col := range t.cols {
		size += col.estimateBytes()
	}
	return size
}
