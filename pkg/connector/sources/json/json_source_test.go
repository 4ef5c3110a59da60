package json

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/table"
	"github.com/scourdata/scour/pkg/testutil"
)

func load(t *testing.T, path string) *table.Table {
	t.Helper()
	ctx := context.Background()
	src := NewSource()
	require.NoError(t, src.Initialize(ctx, &config.ConnectorConfig{
		Name: "in", Type: "json", Path: path,
	}))
	tbl, err := src.Load(ctx)
	require.NoError(t, err)
	return tbl
}

func TestLoadDetectsArrayVersusLines(t *testing.T) {
	arr := testutil.TempFile(t, "arr.json",
		"  [{\"v\": 1}, {\"v\": 2}]")
	lines := testutil.TempFile(t, "lines.json",
		"{\"v\": 1}\n{\"v\": 2}\n")

	for _, path := range []string{arr, lines} {
		tbl := load(t, path)
		require.Equal(t, 2, tbl.NumRows(), path)
		assert.Equal(t, 1.0, tbl.Column("v").Value(0), path)
		assert.Equal(t, 2.0, tbl.Column("v").Value(1), path)
	}
}

func TestLoadIntegersSurviveAsFloats(t *testing.T) {
	path := testutil.TempFile(t, "in.json",
		`[{"big": 9007199254740993, "f": 1.25}]`)

	tbl := load(t, path)
	assert.Equal(t, table.KindNumeric, tbl.Column("f").Kind())
	assert.Equal(t, 1.25, tbl.Column("f").Value(0))
	// Large integers lose precision in float form but stay numeric.
	assert.IsType(t, float64(0), tbl.Column("big").Value(0))
}

func TestLoadNullsAndNestedValues(t *testing.T) {
	path := testutil.TempFile(t, "in.json",
		`[{"a": null, "b": {"k": 1}, "c": [1, 2]}]`)

	tbl := load(t, path)
	assert.Nil(t, tbl.Column("a").Value(0))
	// Nested structures flatten to their JSON text.
	assert.Equal(t, `{"k":1}`, tbl.Column("b").Value(0))
	assert.Equal(t, `[1,2]`, tbl.Column("c").Value(0))
}

func TestLoadEmptyInput(t *testing.T) {
	path := testutil.TempFile(t, "in.json", "")
	tbl := load(t, path)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumCols())
}

func TestLoadMalformedInput(t *testing.T) {
	path := testutil.TempFile(t, "in.json", `[{"a": 1},`)
	src := NewSource()
	ctx := context.Background()
	require.NoError(t, src.Initialize(ctx, &config.ConnectorConfig{
		Name: "in", Type: "json", Path: path,
	}))
	_, err := src.Load(ctx)
	assert.Error(t, err)
}
