package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/config"
	excelsource "github.com/scourdata/scour/pkg/connector/sources/excel"
	"github.com/scourdata/scour/pkg/table"
	"github.com/scourdata/scour/pkg/testutil"
)

func TestExcelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	ctx := context.Background()

	src := testutil.Table(t,
		table.NewColumnFromValues("name", table.KindText,
			[]interface{}{"ana", "luis", nil}),
		table.NewColumnFromValues("amount", table.KindNumeric,
			[]interface{}{10.5, nil, 3.0}),
	)

	dest := NewDestination()
	require.NoError(t, dest.Initialize(ctx, &config.ConnectorConfig{
		Name: "out", Type: "excel", Path: path,
	}))
	require.NoError(t, dest.Write(ctx, src))
	require.NoError(t, dest.Close(ctx))

	reader := excelsource.NewSource()
	require.NoError(t, reader.Initialize(ctx, &config.ConnectorConfig{
		Name: "in", Type: "excel", Path: path,
	}))
	got, err := reader.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, []string{"name", "amount"}, got.Names())
	require.Equal(t, 3, got.NumRows())
	assert.Equal(t, "ana", got.Column("name").Value(0))
	assert.Nil(t, got.Column("name").Value(2))
	assert.Equal(t, table.KindNumeric, got.Column("amount").Kind())
	assert.Equal(t, 10.5, got.Column("amount").Value(0))
	assert.Nil(t, got.Column("amount").Value(1))
}

func TestExcelNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	ctx := context.Background()

	src := testutil.Table(t,
		table.NewColumnFromValues("v", table.KindNumeric, []interface{}{1.0}),
	)

	dest := NewDestination()
	require.NoError(t, dest.Initialize(ctx, &config.ConnectorConfig{
		Name: "out", Type: "excel", Path: path,
		Options: config.Options{"sheet": "cleaned"},
	}))
	require.NoError(t, dest.Write(ctx, src))

	reader := excelsource.NewSource()
	require.NoError(t, reader.Initialize(ctx, &config.ConnectorConfig{
		Name: "in", Type: "excel", Path: path,
		Options: config.Options{"sheet": "cleaned"},
	}))
	got, err := reader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumRows())

	// Asking for a sheet that does not exist fails.
	reader = excelsource.NewSource()
	require.NoError(t, reader.Initialize(ctx, &config.ConnectorConfig{
		Name: "in", Type: "excel", Path: path,
		Options: config.Options{"sheet": "absent"},
	}))
	_, err = reader.Load(ctx)
	assert.Error(t, err)
}
