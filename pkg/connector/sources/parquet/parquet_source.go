// Package parquet provides the Parquet source connector, built on the
// Arrow parquet reader. Column kinds come straight from the file schema,
// so no reclassification pass runs after loading.
package parquet

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterSource("parquet", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return NewSource(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "parquet",
		Type:        string(core.ConnectorTypeSource),
		Description: "Reads Parquet files through the Arrow reader",
		Version:     "1.0.0",
		Extensions:  []string{".parquet"},
	})
}

// Source loads a Parquet file into a table.
type Source struct {
	base.Connector

	path string
}

// NewSource creates an unconfigured Parquet source.
func NewSource() *Source {
	return &Source{Connector: base.NewConnector("parquet", string(core.ConnectorTypeSource))}
}

// Initialize parses the connector configuration.
func (s *Source) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.Configure(cfg); err != nil {
		return err
	}
	s.path = cfg.Path
	return nil
}

// Load reads every row group into one table. The Parquet reader needs a
// seekable input, so the file is read into memory first; the cleaning
// engine holds the whole table in memory anyway.
func (s *Source) Load(ctx context.Context) (*table.Table, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read "+s.path)
	}

	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open parquet file")
	}
	defer func() { _ = fr.Close() }()

	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create arrow reader")
	}

	arrowSchema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read parquet schema")
	}

	cols := make([]*table.Column, arrowSchema.NumFields())
	for i := 0; i < arrowSchema.NumFields(); i++ {
		f := arrowSchema.Field(i)
		cols[i] = table.NewColumn(f.Name, kindForArrowType(f.Type))
	}

	rr, err := arrowReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create record reader")
	}
	defer rr.Release()

	rows := 0
	for rr.Next() {
		rec := rr.Record()
		for i := 0; i < int(rec.NumCols()); i++ {
			col := rec.Column(i)
			fieldType := rec.Schema().Field(i).Type
			for row := 0; row < int(rec.NumRows()); row++ {
				cols[i].Append(cellFromArrow(col, row, fieldType))
			}
		}
		rows += int(rec.NumRows())
	}
	if err := rr.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read parquet rows")
	}

	tbl, err := table.FromColumns(cols...)
	if err != nil {
		return nil, err
	}

	s.Logger().Info("parquet file loaded",
		zap.String("path", s.path),
		zap.Int("rows", rows),
		zap.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// Close releases nothing; the reader only lives inside Load.
func (s *Source) Close(ctx context.Context) error { return nil }

// kindForArrowType maps a physical Arrow type to a column kind.
func kindForArrowType(t arrow.DataType) table.Kind {
	switch t.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return table.KindNumeric
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return table.KindDatetime
	default:
		return table.KindText
	}
}

// cellFromArrow converts one Arrow value to a cell in normal form.
func cellFromArrow(col arrow.Array, row int, t arrow.DataType) interface{} {
	if col.IsNull(row) {
		return nil
	}
	switch c := col.(type) {
	case *array.Boolean:
		return core.NormalizeCell(c.Value(row))
	case *array.Int32:
		return float64(c.Value(row))
	case *array.Int64:
		return float64(c.Value(row))
	case *array.Float32:
		return float64(c.Value(row))
	case *array.Float64:
		return c.Value(row)
	case *array.String:
		return core.NormalizeCell(c.Value(row))
	case *array.Binary:
		return core.NormalizeCell(c.Value(row))
	case *array.Timestamp:
		if ts, ok := t.(*arrow.TimestampType); ok {
			return c.Value(row).ToTime(ts.Unit)
		}
		return time.Unix(0, int64(c.Value(row))).UTC()
	case *array.Date32:
		return c.Value(row).ToTime()
	case *array.Date64:
		return c.Value(row).ToTime()
	default:
		return core.NormalizeCell(col.ValueStr(row))
	}
}
