// Package csv provides the CSV source connector. Compressed files are
// handled transparently by extension (data.csv.gz, data.csv.zst, ...).
package csv

import (
	"context"
	enccsv "encoding/csv"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/compression"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/schema"
	stringpool "github.com/scourdata/scour/pkg/strings"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterSource("csv", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return NewSource(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "csv",
		Type:        string(core.ConnectorTypeSource),
		Description: "Reads delimited text files, optionally compressed",
		Version:     "1.0.0",
		Extensions:  []string{".csv", ".tsv", ".txt"},
	})
}

// Source loads a delimited text file into a table. Options: "delimiter"
// (single character, default ","), "has_header" (default true),
// "compression" (overrides extension detection).
type Source struct {
	base.Connector

	path      string
	delimiter rune
	hasHeader bool
	alg       compression.Algorithm
}

// NewSource creates an unconfigured CSV source.
func NewSource() *Source {
	return &Source{Connector: base.NewConnector("csv", string(core.ConnectorTypeSource))}
}

// Initialize parses the connector configuration.
func (s *Source) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.Configure(cfg); err != nil {
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

	s.path = cfg.Path
	s.delimiter = runes[0]
	s.hasHeader = cfg.Options.Bool("has_header", true)
	s.alg = alg
	return nil
}

// Load reads the whole file into a table. Ragged rows are an error; empty
// fields load as missing.
func (s *Source) Load(ctx context.Context) (*table.Table, error) {
	f, err := os.Open(s.path) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open "+s.path)
	}
	defer func() { _ = f.Close() }()

	rc, err := compression.WrapReader(f, s.alg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	reader := enccsv.NewReader(rc)
	reader.Comma = s.delimiter
	reader.ReuseRecord = true

	var cols []*table.Column
	rows := 0
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "csv load canceled")
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "malformed csv record")
		}

		if cols == nil {
			cols = s.makeColumns(record)
			if s.hasHeader {
				continue
			}
		}
		for i, field := range record {
			// ReuseRecord shares the backing buffer across Read calls
			cols[i].Append(core.NormalizeCell(stringpool.Clone(field)))
		}
		rows++
	}

	tbl, err := table.FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	schema.NewClassifier().Normalize(tbl)

	s.Logger().Info("csv file loaded",
		zap.String("path", s.path),
		zap.Int("rows", rows),
		zap.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// Close releases nothing; the file handle only lives inside Load.
func (s *Source) Close(ctx context.Context) error { return nil }

// makeColumns builds the column set from the first record. Header names
// are taken verbatim (the standardize stage normalizes them later), but
// blanks and duplicates get positional suffixes so the table invariant of
// unique names holds at ingestion.
func (s *Source) makeColumns(first []string) []*table.Column {
	cols := make([]*table.Column, len(first))
	seen := make(map[string]int, len(first))
	for i := range first {
		name := "column_" + strconv.Itoa(i+1)
		if s.hasHeader && first[i] != "" {
			name = stringpool.Clone(first[i])
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		seen[name]++
		cols[i] = table.NewColumn(name, table.KindUnknown)
	}
	return cols
}
