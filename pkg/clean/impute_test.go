package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

func TestImputeNumericMedian(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("amount", table.KindNumeric,
			[]interface{}{1.0, nil, 2.0, 100.0}),
	)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	// Median of {1, 2, 100} is 2; the outlier does not drag the fill value.
	assert.Equal(t, 2.0, tbl.Column("amount").Value(1))
	assert.Equal(t, 1, res.ImputedCells)
	assert.Equal(t, 1, res.ImputedColumns)
	assert.Equal(t, 0, tbl.Column("amount").Missing())
}

func TestImputeNumericStringsUseParsedMedian(t *testing.T) {
	// A table built directly, without ingestion normalization, can hold
	// numeric-looking strings in an unknown column.
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("amount", table.KindUnknown,
			[]interface{}{"1", "2", "100", nil}),
	)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	assert.Equal(t, 2.0, tbl.Column("amount").Value(3))
	assert.Equal(t, 1, res.ImputedCells)
}

func TestImputeNumericColumnWithoutParseableValues(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("n", table.KindNumeric,
			[]interface{}{"garbage", nil}),
	)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	// No statistic can be computed, so the cell stays missing rather
	// than becoming NaN.
	assert.Nil(t, tbl.Column("n").Value(1))
	assert.Equal(t, 0, res.ImputedCells)
}

func TestImputeTextMode(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("city", table.KindText,
			[]interface{}{"lima", nil, "bogota", "lima", nil}),
	)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	assert.Equal(t, "lima", tbl.Column("city").Value(1))
	assert.Equal(t, "lima", tbl.Column("city").Value(4))
	assert.Equal(t, 2, res.ImputedCells)
}

func TestImputeModeTieBreaksToFirstInRowOrder(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("c", table.KindText,
			[]interface{}{"b", "a", "a", "b", nil}),
	)
	require.NoError(t, err)

	ImputeMissing(tbl, schema.NewClassifier())

	// "b" and "a" both occur twice; "a" reaches count 2 first (row 2
	// versus row 3), so "a" is the deterministic mode.
	assert.Equal(t, "a", tbl.Column("c").Value(4))
}

func TestImputeAllMissingColumnLeftUnfilled(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("ghost", table.KindText, []interface{}{nil, nil}),
		table.NewColumnFromValues("n", table.KindNumeric, []interface{}{1.0, nil}),
	)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	assert.Equal(t, 1, res.AllMissingColumns)
	assert.Equal(t, 2, tbl.Column("ghost").Missing())
	assert.Equal(t, 0, tbl.Column("n").Missing())
}

func TestImputeCategoryColumn(t *testing.T) {
	col := table.NewColumnFromValues("c", table.KindText,
		[]interface{}{"x", "x", "y", nil})
	col.EncodeCategory()
	tbl, err := table.FromColumns(col)
	require.NoError(t, err)

	res := ImputeMissing(tbl, schema.NewClassifier())

	assert.Equal(t, "x", col.Value(3))
	assert.Equal(t, 1, res.ImputedCells)
	assert.Equal(t, 0, col.Missing())
}

func TestImputeNeverChangesShape(t *testing.T) {
	tbl, err := table.FromColumns(
		table.NewColumnFromValues("a", table.KindNumeric, []interface{}{nil, 2.0}),
		table.NewColumnFromValues("b", table.KindText, []interface{}{"x", nil}),
	)
	require.NoError(t, err)

	ImputeMissing(tbl, schema.NewClassifier())

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}
