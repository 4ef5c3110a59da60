// Package json provides the JSON destination connector, writing either
// one array of objects or newline-delimited objects.
package json

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/compression"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	jsonpool "github.com/scourdata/scour/pkg/json"
	"github.com/scourdata/scour/pkg/pool"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterDestination("json", func(cfg *config.ConnectorConfig) (core.Destination, error) {
		return NewDestination(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "json",
		Type:        string(core.ConnectorTypeDestination),
		Description: "Writes JSON arrays or line-delimited objects",
		Version:     "1.0.0",
		Extensions:  []string{".json", ".ndjson", ".jsonl"},
	})
}

// Destination writes a table as JSON objects, one per row. Options:
// "lines" (line-delimited instead of one array; defaults to true for
// .ndjson and .jsonl paths), "pretty" (indent array output),
// "compression" (overrides extension detection).
type Destination struct {
	base.Connector

	path   string
	lines  bool
	pretty bool
	alg    compression.Algorithm
}

// NewDestination creates an unconfigured JSON destination.
func NewDestination() *Destination {
	return &Destination{Connector: base.NewConnector("json", string(core.ConnectorTypeDestination))}
}

// Initialize parses the connector configuration.
func (d *Destination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}
	alg, inner := compression.DetectFromPath(cfg.Path)
	if name := cfg.Options.String("compression", ""); name != "" {
		var err error
		if alg, err = compression.Parse(name); err != nil {
			return err
		}
	}

	ext := strings.ToLower(filepath.Ext(inner))
	d.path = cfg.Path
	d.lines = cfg.Options.Bool("lines", ext == ".ndjson" || ext == ".jsonl")
	d.pretty = cfg.Options.Bool("pretty", false)
	d.alg = alg
	return nil
}

// Write serializes every row as an object keyed by column name. Missing
// cells serialize as null; datetimes as RFC 3339 text.
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

	enc := jsonpool.NewStreamingEncoder(wc, !d.lines)
	if d.pretty && !d.lines {
		enc.SetPretty(true, "  ")
	}

	names := tbl.Names()
	cols := tbl.Columns()
	record := pool.GetMap()
	defer pool.PutMap(record)
	for i := 0; i < tbl.NumRows(); i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "json write canceled")
		default:
		}
		for j, col := range cols {
			record[names[j]] = jsonCell(col.Value(i))
		}
		if err := enc.Encode(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to encode json record")
		}
	}

	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish json output")
	}
	if err := wc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed stream")
	}

	d.Logger().Info("json file written",
		zap.String("path", d.path),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return f.Close()
}

// Close releases nothing; the file handle only lives inside Write.
func (d *Destination) Close(ctx context.Context) error { return nil }

func jsonCell(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return v
}
