// Package excel provides the Excel destination connector, writing the
// table into one sheet of a new xlsx workbook.
package excel

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/pool"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterDestination("excel", func(cfg *config.ConnectorConfig) (core.Destination, error) {
		return NewDestination(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "excel",
		Type:        string(core.ConnectorTypeDestination),
		Description: "Writes one sheet of an xlsx workbook",
		Version:     "1.0.0",
		Extensions:  []string{".xlsx"},
	})
}

// Destination writes a table into a new workbook. Options: "sheet"
// (default "Sheet1").
type Destination struct {
	base.Connector

	path  string
	sheet string
}

// NewDestination creates an unconfigured Excel destination.
func NewDestination() *Destination {
	return &Destination{Connector: base.NewConnector("excel", string(core.ConnectorTypeDestination))}
}

// Initialize parses the connector configuration.
func (d *Destination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}
	d.path = cfg.Path
	d.sheet = cfg.Options.String("sheet", "Sheet1")
	return nil
}

// Write creates the workbook with a header row followed by the data.
// Numbers stay numeric cells; everything else is written as text, missing
// cells stay empty.
func (d *Destination) Write(ctx context.Context, tbl *table.Table) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if d.sheet != "Sheet1" {
		if err := wb.SetSheetName("Sheet1", d.sheet); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to name sheet "+d.sheet)
		}
	}

	header := make([]interface{}, tbl.NumCols())
	for i, name := range tbl.Names() {
		header[i] = name
	}
	if err := d.writeRow(wb, 1, header); err != nil {
		return err
	}

	cols := tbl.Columns()
	row := pool.GetRow()
	defer pool.PutRow(row)
	for i := 0; i < tbl.NumRows(); i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "excel write canceled")
		default:
		}
		row = row[:0]
		for _, col := range cols {
			row = append(row, excelCell(col.Value(i)))
		}
		if err := d.writeRow(wb, i+2, row); err != nil {
			return err
		}
	}

	if err := wb.SaveAs(d.path); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to save "+d.path)
	}

	d.Logger().Info("excel workbook written",
		zap.String("path", d.path),
		zap.String("sheet", d.sheet),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return nil
}

// Close releases nothing; the workbook only lives inside Write.
func (d *Destination) Close(ctx context.Context) error { return nil }

func (d *Destination) writeRow(wb *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to compute cell name")
	}
	if err := wb.SetSheetRow(d.sheet, cell, &cells); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row")
	}
	return nil
}

func excelCell(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return x
	default:
		return core.FormatCell(v)
	}
}
