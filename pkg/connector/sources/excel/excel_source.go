// Package excel provides the Excel source connector, reading one sheet of
// an xlsx workbook.
package excel

import (
	"context"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterSource("excel", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return NewSource(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "excel",
		Type:        string(core.ConnectorTypeSource),
		Description: "Reads one sheet of an xlsx workbook",
		Version:     "1.0.0",
		Extensions:  []string{".xlsx", ".xlsm"},
	})
}

// Source loads a worksheet into a table. Options: "sheet" (defaults to
// the workbook's first sheet), "has_header" (default true).
type Source struct {
	base.Connector

	path      string
	sheet     string
	hasHeader bool
}

// NewSource creates an unconfigured Excel source.
func NewSource() *Source {
	return &Source{Connector: base.NewConnector("excel", string(core.ConnectorTypeSource))}
}

// Initialize parses the connector configuration.
func (s *Source) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.Configure(cfg); err != nil {
		return err
	}
	s.path = cfg.Path
	s.sheet = cfg.Options.String("sheet", "")
	s.hasHeader = cfg.Options.Bool("has_header", true)
	return nil
}

// Load reads the configured sheet. Excel rows are ragged; short rows are
// padded with missing cells so all columns stay aligned.
func (s *Source) Load(ctx context.Context) (*table.Table, error) {
	wb, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open "+s.path)
	}
	defer func() { _ = wb.Close() }()

	sheet := s.sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read sheet "+sheet)
	}
	if len(rows) == 0 {
		return table.New(), nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	// Blank and duplicate headers get positional suffixes; the standardize
	// stage normalizes the names later.
	cols := make([]*table.Column, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := "column_" + strconv.Itoa(i+1)
		if s.hasHeader && i < len(rows[0]) && rows[0][i] != "" {
			name = rows[0][i]
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		seen[name]++
		cols[i] = table.NewColumn(name, table.KindUnknown)
	}

	start := 0
	if s.hasHeader {
		start = 1
	}
	for _, row := range rows[start:] {
		for i := 0; i < width; i++ {
			if i < len(row) {
				cols[i].Append(core.NormalizeCell(row[i]))
			} else {
				cols[i].Append(nil)
			}
		}
	}

	tbl, err := table.FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	schema.NewClassifier().Normalize(tbl)

	s.Logger().Info("excel sheet loaded",
		zap.String("path", s.path),
		zap.String("sheet", sheet),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// Close releases nothing; the workbook only lives inside Load.
func (s *Source) Close(ctx context.Context) error { return nil }
