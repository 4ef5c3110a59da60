// Package json provides the JSON source connector. It accepts either one
// top-level array of objects or newline-delimited objects, detected from
// the first byte, and handles compressed files by extension.
package json

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/compression"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	jsonpool "github.com/scourdata/scour/pkg/json"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterSource("json", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return NewSource(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "json",
		Type:        string(core.ConnectorTypeSource),
		Description: "Reads JSON arrays or line-delimited objects",
		Version:     "1.0.0",
		Extensions:  []string{".json", ".ndjson", ".jsonl"},
	})
}

// Source loads JSON records into a table. Options: "compression"
// (overrides extension detection).
type Source struct {
	base.Connector

	path string
	alg  compression.Algorithm
}

// NewSource creates an unconfigured JSON source.
func NewSource() *Source {
	return &Source{Connector: base.NewConnector("json", string(core.ConnectorTypeSource))}
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
	s.path = cfg.Path
	s.alg = alg
	return nil
}

// Load decodes every record and builds a table over the union of keys.
// Object order is not preserved by JSON decoding, so columns come out in
// sorted key order; null and absent fields load as missing.
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

	records, err := decodeRecords(rc)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]*table.Column, len(names))
	for i, name := range names {
		col := table.NewColumn(name, table.KindUnknown)
		for _, rec := range records {
			col.Append(normalizeJSONCell(rec[name]))
		}
		cols[i] = col
	}

	tbl, err := table.FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	schema.NewClassifier().Normalize(tbl)

	s.Logger().Info("json file loaded",
		zap.String("path", s.path),
		zap.Int("rows", len(records)),
		zap.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// Close releases nothing; the file handle only lives inside Load.
func (s *Source) Close(ctx context.Context) error { return nil }

// decodeRecords reads either a top-level array or a stream of objects,
// sniffing the first non-whitespace byte.
func decodeRecords(r io.Reader) ([]map[string]interface{}, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read json input")
	}

	dec := jsonpool.GetDecoder(br)
	defer jsonpool.PutDecoder(dec)

	if first == '[' {
		var records []map[string]interface{}
		if err := dec.Decode(&records); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "malformed json array")
		}
		return records, nil
	}

	var records []map[string]interface{}
	for {
		var rec map[string]interface{}
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "malformed json record")
		}
		records = append(records, rec)
	}
	return records, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// normalizeJSONCell maps a decoded JSON value onto a cell. Numbers arrive
// as json.Number because the pooled decoder runs with UseNumber; nested
// arrays and objects are re-encoded as JSON text.
func normalizeJSONCell(v interface{}) interface{} {
	switch x := v.(type) {
	case gojson.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]interface{}, []interface{}:
		data, err := jsonpool.Marshal(x)
		if err != nil {
			return nil
		}
		return string(data)
	default:
		return core.NormalizeCell(v)
	}
}
