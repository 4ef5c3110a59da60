package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/table"
)

func TestRemoveGarbageDuplicates(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("a", table.KindNumeric, []interface{}{1.0, 2.0, 1.0, 2.0, 3.0}),
		table.NewColumnFromValues("b", table.KindText, []interface{}{"x", "y", "x", "y", "z"}),
	)
	require.NoError(t, err)

	res := RemoveGarbage(tbl)

	assert.Equal(t, 2, res.DuplicateRows)
	assert.Equal(t, 0, res.EmptyRows)
	assert.Equal(t, 3, tbl.NumRows())
	// First occurrences survive in order.
	assert.Equal(t, 1.0, tbl.Column("a").Value(0))
	assert.Equal(t, 2.0, tbl.Column("a").Value(1))
	assert.Equal(t, 3.0, tbl.Column("a").Value(2))
}

func TestRemoveGarbageEmptyRows(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("a", table.KindNumeric, []interface{}{1.0, nil, nil}),
		table.NewColumnFromValues("b", table.KindText, []interface{}{nil, nil, "z"}),
	)
	require.NoError(t, err)

	res := RemoveGarbage(tbl)

	assert.Equal(t, 1, res.EmptyRows)
	assert.Equal(t, 0, res.DuplicateRows)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestRemoveGarbageMissingMarkersCompareEqual(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("a", table.KindNumeric, []interface{}{1.0, 1.0}),
		table.NewColumnFromValues("b", table.KindText, []interface{}{nil, nil}),
	)
	require.NoError(t, err)

	res := RemoveGarbage(tbl)

	assert.Equal(t, 1, res.DuplicateRows)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestRemoveGarbageIdempotent(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("a", table.KindNumeric, []interface{}{1.0, 1.0, nil}),
	)
	require.NoError(t, err)

	RemoveGarbage(tbl)
	res := RemoveGarbage(tbl)

	assert.Equal(t, 0, res.DuplicateRows)
	assert.Equal(t, 0, res.EmptyRows)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestRemoveGarbageEmptyTable(t *testing.T) {
	res := RemoveGarbage(table.New())
	assert.Zero(t, res.DuplicateRows)
	assert.Zero(t, res.EmptyRows)
}
