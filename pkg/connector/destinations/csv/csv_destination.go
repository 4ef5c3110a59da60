// Package csv provides the CSV destination connector. Output compression
// follows the file extension unless overridden by option.
package csv

import (
	"context"
	enccsv "encoding/csv"
	"os"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/compression"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/pool"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterDestination("csv", func(cfg *config.ConnectorConfig) (core.Destination, error) {
		return NewDestination(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "csv",
		Type:        string(core.ConnectorTypeDestination),
		Description: "Writes delimited text files, optionally compressed",
		Version:     "1.0.0",
		Extensions:  []string{".csv", ".tsv", ".txt"},
	})
}

// Destination writes a table as delimited text. Options: "delimiter"
// (default ","), "write_header" (default true), "compression" (overrides
// extension detection).
type Destination struct {
	base.Connector

	path        string
	delimiter   rune
	writeHeader bool
	alg         compression.Algorithm
}

// NewDestination creates an unconfigured CSV destination.
func NewDestination() *Destination {
	return &Destination{Connector: base.NewConnector("csv", string(core.ConnectorTypeDestination))}
}

// Initialize parses the connector configuration.
func (d *Destination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}

	alg, _ := compression.DetectFromPath(cfg.Path)
	if name := cfg.Options.String("compression", ""); name != "" {
		var err error
		if alg, err = compression.Parse(name); err != nil {
			return err
		}
	}

	delim := cfg.Options.String("delimiter", ",")
	runes := []rune(delim)
	if len(runes) != 1 {
		return errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", delim)
	}

	d.path = cfg.Path
	d.delimiter = runes[0]
	d.writeHeader = cfg.Options.Bool("write_header", true)
	d.alg = alg
	return nil
}

// Write serializes the table. Missing cells render as empty fields.
func (d *Destination) Write(ctx context.Context, tbl *table.Table) error {
	f, err := os.Create(d.path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create "+d.path)
	}
	defer func() { _ = f.Close() }()

	wc, err := compression.WrapWriter(f, d.alg)
	if err != nil {
		return err
	}

	writer := enccsv.NewWriter(wc)
	writer.Comma = d.delimiter

	if d.writeHeader {
		if err := writer.Write(tbl.Names()); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv header")
		}
	}

	record := pool.GetStringSlice()
	defer pool.PutStringSlice(record)
	cols := tbl.Columns()
	for i := 0; i < tbl.NumRows(); i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "csv write canceled")
		default:
		}
		record = record[:0]
		for _, col := range cols {
			record = append(record, core.FormatCell(col.Value(i)))
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv record")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush csv output")
	}
	if err := wc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed stream")
	}

	d.Logger().Info("csv file written",
		zap.String("path", d.path),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return f.Close()
}

// Close releases nothing; the file handle only lives inside Write.
func (d *Destination) Close(ctx context.Context) error { return nil }
