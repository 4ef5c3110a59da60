package csv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/table"
	"github.com/scourdata/scour/pkg/testutil"
)

func loadCSV(t *testing.T, path string, opts config.Options) *table.Table {
	t.Helper()
	src := NewSource()
	ctx := context.Background()
	require.NoError(t, src.Initialize(ctx, &config.ConnectorConfig{
		Name: "test", Type: "csv", Path: path, Options: opts,
	}))
	tbl, err := src.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, src.Close(ctx))
	return tbl
}

func TestLoadPlainCSV(t *testing.T) {
	path := testutil.TempFile(t, "data.csv",
		"name,amount\nana,10.5\nluis,\n,3\n")

	tbl := loadCSV(t, path, nil)

	require.Equal(t, []string{"name", "amount"}, tbl.Names())
	require.Equal(t, 3, tbl.NumRows())

	amount := tbl.Column("amount")
	assert.Equal(t, table.KindNumeric, amount.Kind())
	assert.Equal(t, 10.5, amount.Value(0))
	assert.Nil(t, amount.Value(1))
	assert.Equal(t, 3.0, amount.Value(2))

	name := tbl.Column("name")
	assert.Equal(t, table.KindText, name.Kind())
	assert.Nil(t, name.Value(2))
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	path := testutil.TempFile(t, "data.csv", "1,x\n2,y\n")

	tbl := loadCSV(t, path, config.Options{"has_header": false})

	assert.Equal(t, []string{"column_1", "column_2"}, tbl.Names())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 1.0, tbl.Column("column_1").Value(0))
}

func TestLoadCSVCustomDelimiter(t *testing.T) {
	path := testutil.TempFile(t, "data.csv", "a;b\n1;2\n")

	tbl := loadCSV(t, path, config.Options{"delimiter": ";"})

	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, 1.0, tbl.Column("a").Value(0))
}

func TestLoadCSVDuplicateHeaders(t *testing.T) {
	path := testutil.TempFile(t, "data.csv", "id,id,\n1,2,3\n")

	tbl := loadCSV(t, path, nil)

	assert.Equal(t, []string{"id", "id_2", "column_3"}, tbl.Names())
}

func TestLoadGzippedCSV(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("v\n1\n2\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tbl := loadCSV(t, path, nil)

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 1.0, tbl.Column("v").Value(0))
	assert.Equal(t, 2.0, tbl.Column("v").Value(1))
}

func TestInitializeRejectsBadDelimiter(t *testing.T) {
	src := NewSource()
	err := src.Initialize(context.Background(), &config.ConnectorConfig{
		Name: "test", Type: "csv", Path: "x.csv",
		Options: config.Options{"delimiter": "ab"},
	})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	src := NewSource()
	ctx := context.Background()
	require.NoError(t, src.Initialize(ctx, &config.ConnectorConfig{
		Name: "test", Type: "csv", Path: filepath.Join(t.TempDir(), "absent.csv"),
	}))
	_, err := src.Load(ctx)
	assert.Error(t, err)
}
