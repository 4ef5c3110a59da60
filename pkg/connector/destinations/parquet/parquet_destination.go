// Package parquet provides the Parquet destination connector, built on
// the Arrow parquet writer.
package parquet

import (
	"context"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	stringpool "github.com/scourdata/scour/pkg/strings"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterDestination("parquet", func(cfg *config.ConnectorConfig) (core.Destination, error) {
		return NewDestination(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "parquet",
		Type:        string(core.ConnectorTypeDestination),
		Description: "Writes Parquet files through the Arrow writer",
		Version:     "1.0.0",
		Extensions:  []string{".parquet"},
	})
}

// Destination writes a table as one Parquet file. Options: "compression"
// ("snappy" by default, also "gzip", "zstd", "lz4", "none").
type Destination struct {
	base.Connector

	path  string
	codec compress.Compression
}

// NewDestination creates an unconfigured Parquet destination.
func NewDestination() *Destination {
	return &Destination{Connector: base.NewConnector("parquet", string(core.ConnectorTypeDestination))}
}

// Initialize parses the connector configuration.
func (d *Destination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}
	codec, err := parquetCompression(cfg.Options.String("compression", "snappy"))
	if err != nil {
		return err
	}
	d.path = cfg.Path
	d.codec = codec
	return nil
}

// Write serializes the table. Numeric columns become Float64, datetime
// columns Timestamp (nanoseconds), everything else String; category
// columns decode to their string values on the way out. All fields are
// nullable since any cell may be missing.
func (d *Destination) Write(ctx context.Context, tbl *table.Table) error {
	f, err := os.Create(d.path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create "+d.path)
	}
	defer func() { _ = f.Close() }()

	arrowSchema := schemaForTable(tbl)
	alloc := memory.NewGoAllocator()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(d.codec),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(alloc),
	)
	fw, err := pqarrow.NewFileWriter(arrowSchema, f, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create parquet writer")
	}

	builder := array.NewRecordBuilder(alloc, arrowSchema)
	defer builder.Release()

	cols := tbl.Columns()
	for i := 0; i < tbl.NumRows(); i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "parquet write canceled")
		default:
		}
		for j, col := range cols {
			appendCell(builder.Field(j), col.Value(i))
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()
	if err := fw.WriteBuffered(rec); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write parquet rows")
	}
	// The parquet writer owns the file handle and closes it with the
	// footer; the deferred close only covers early returns.
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish parquet file")
	}

	d.Logger().Info("parquet file written",
		zap.String("path", d.path),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return nil
}

// Close releases nothing; the writer only lives inside Write.
func (d *Destination) Close(ctx context.Context) error { return nil }

func schemaForTable(tbl *table.Table) *arrow.Schema {
	fields := make([]arrow.Field, 0, tbl.NumCols())
	for _, col := range tbl.Columns() {
		var t arrow.DataType
		switch col.Kind() {
		case table.KindNumeric:
			t = arrow.PrimitiveTypes.Float64
		case table.KindDatetime:
			t = arrow.FixedWidthTypes.Timestamp_ns
		default:
			t = arrow.BinaryTypes.String
		}
		fields = append(fields, arrow.Field{Name: col.Name(), Type: t, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

func appendCell(b array.Builder, v interface{}) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch builder := b.(type) {
	case *array.Float64Builder:
		if f, ok := v.(float64); ok {
			builder.Append(f)
		} else {
			builder.AppendNull()
		}
	case *array.TimestampBuilder:
		if t, ok := v.(time.Time); ok {
			builder.Append(arrow.Timestamp(t.UnixNano()))
		} else {
			builder.AppendNull()
		}
	case *array.StringBuilder:
		builder.Append(stringpool.ValueToString(v))
	default:
		b.AppendNull()
	}
}

func parquetCompression(name string) (compress.Compression, error) {
	switch name {
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed,
			errors.Newf(errors.ErrorTypeConfig, "unknown parquet compression %q", name)
	}
}
