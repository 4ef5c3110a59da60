package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/table"
)

// Table builds a table from columns, failing the test on invariant
// violations instead of returning an error.
func Table(t *testing.T, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.FromColumns(cols...)
	require.NoError(t, err)
	return tbl
}

// Column builds a column of unknown kind over the given cells. Use nil
// for missing.
func Column(name string, values ...interface{}) *table.Column {
	return table.NewColumnFromValues(name, table.KindUnknown, values)
}

// NumericColumn builds a committed numeric column. Use nil for missing.
func NumericColumn(name string, values ...interface{}) *table.Column {
	return table.NewColumnFromValues(name, table.KindNumeric, values)
}

// TextColumn builds a committed text column. Use nil for missing.
func TextColumn(name string, values ...interface{}) *table.Column {
	return table.NewColumnFromValues(name, table.KindText, values)
}

// TempFile writes content into a file under t.TempDir and returns its path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
