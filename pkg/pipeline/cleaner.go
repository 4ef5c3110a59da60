// Package pipeline provides the fluent cleaning orchestrator. A Cleaner
// exclusively owns one table for its lifetime; every stage method mutates
// the owned instance in place and returns the Cleaner, so calls chain in
// whatever order the caller wants:
//
//	c := pipeline.New(tbl).
//		Standardize().
//		HandleGarbage().
//		ImputeMissing().
//		HandleOutliers(1.5, clean.OutlierCap).
//		Optimize()
//	err := c.Export(ctx, "clean.parquet", "parquet")
//
// Configuration errors (unknown outlier method, bad export format) are
// sticky: the first one freezes the chain, later stages become no-ops and
// Err or Export returns it. The table is left at its pre-error state.
// A Cleaner is not safe for concurrent use.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/clean"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/metrics"
	"github.com/scourdata/scour/pkg/observability"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

// Cleaner owns a table and applies cleaning stages to it.
type Cleaner struct {
	tbl        *table.Table
	classifier *schema.Classifier
	log        *zap.Logger
	metrics    *metrics.Collector
	report     *Report
	err        error
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithMetrics attaches a Prometheus collector; stage results are recorded
// as they happen.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Cleaner) { c.metrics = m }
}

// WithLogger replaces the default package logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cleaner) { c.log = log }
}

// New wraps an ingested table in a Cleaner, taking exclusive ownership.
func New(tbl *table.Table, opts ...Option) *Cleaner {
	c := &Cleaner{
		tbl:        tbl,
		classifier: schema.NewClassifier(),
		log:        logger.Get().With(zap.String("component", "cleaner")),
		report:     newReport(tbl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open loads a table through a registered source connector and wraps it.
func Open(ctx context.Context, sourceType string, cfg *config.ConnectorConfig, opts ...Option) (*Cleaner, error) {
	source, err := registry.CreateSource(sourceType, cfg)
	if err != nil {
		return nil, err
	}
	if err := source.Initialize(ctx, cfg); err != nil {
		return nil, err
	}
	defer func() { _ = source.Close(ctx) }()

	ctx, span := observability.StartConnector(ctx, sourceType, "load")
	tbl, err := source.Load(ctx)
	span.End()
	if err != nil {
		return nil, err
	}

	c := New(tbl, opts...)
	if c.metrics != nil {
		c.metrics.RecordLoad(sourceType, tbl.NumRows())
	}
	return c, nil
}

// Table returns the owned table. The Cleaner keeps mutating it; callers
// must not hand it to a second orchestrator.
func (c *Cleaner) Table() *table.Table { return c.tbl }

// Err returns the first sticky error, if any.
func (c *Cleaner) Err() error { return c.err }

// Report returns the per-stage statistics accumulated so far.
func (c *Cleaner) Report() *Report {
	c.report.finish(c.tbl)
	return c.report
}

// Standardize normalizes column names to unique snake_case identifiers
// and trims whitespace from text cells. Idempotent.
func (c *Cleaner) Standardize() *Cleaner {
	return c.stage("standardize", func() (interface{}, error) {
		res := clean.Standardize(c.tbl)
		c.log.Info("columns and text cells standardized",
			zap.Int("renamed_columns", res.RenamedColumns),
			zap.Int("trimmed_cells", res.TrimmedCells))
		return res, nil
	})
}

// HandleGarbage removes exact-duplicate rows and all-missing rows.
func (c *Cleaner) HandleGarbage() *Cleaner {
	return c.stage("garbage", func() (interface{}, error) {
		res := clean.RemoveGarbage(c.tbl)
		if c.metrics != nil {
			c.metrics.RecordRemoved("duplicate", res.DuplicateRows)
			c.metrics.RecordRemoved("empty", res.EmptyRows)
		}
		c.log.Info("duplicates and empty rows removed",
			zap.Int("duplicate_rows", res.DuplicateRows),
			zap.Int("empty_rows", res.EmptyRows))
		return res, nil
	})
}

// ImputeMissing fills missing cells with the column median (numeric) or
// deterministic mode (everything else). Fully missing columns are left
// unfilled by policy.
func (c *Cleaner) ImputeMissing() *Cleaner {
	return c.stage("impute", func() (interface{}, error) {
		res := clean.ImputeMissing(c.tbl, c.classifier)
		if c.metrics != nil {
			c.metrics.RecordImputed(res.ImputedCells)
		}
		c.log.Info("missing values imputed",
			zap.Int("imputed_cells", res.ImputedCells),
			zap.Int("imputed_columns", res.ImputedColumns))
		return res, nil
	})
}

// HandleOutliers applies IQR bounds with the given threshold to every
// numeric column, capping or removing per method. An unknown method or
// negative threshold is a sticky configuration error; the table is
// untouched.
func (c *Cleaner) HandleOutliers(threshold float64, method clean.OutlierMethod) *Cleaner {
	return c.stage("outliers", func() (interface{}, error) {
		res, err := clean.HandleOutliers(c.tbl, threshold, method, c.classifier)
		if err != nil {
			return nil, err
		}
		if c.metrics != nil {
			c.metrics.RecordCapped(res.CappedCells)
			c.metrics.RecordRemoved("outlier", res.RemovedRows)
		}
		c.log.Info("outliers handled",
			zap.String("method", string(method)),
			zap.Float64("threshold", threshold),
			zap.Int("capped_cells", res.CappedCells),
			zap.Int("removed_rows", res.RemovedRows))
		return res, nil
	})
}

// Optimize promotes datetime-named text columns and dictionary-encodes
// low-cardinality text columns.
func (c *Cleaner) Optimize() *Cleaner {
	return c.stage("optimize", func() (interface{}, error) {
		res := clean.Optimize(c.tbl, c.classifier)
		if c.metrics != nil {
			c.metrics.SetTableBytes(res.BytesAfter)
		}
		c.log.Info("column types optimized",
			zap.Int("promoted_datetime", res.PromotedDatetime),
			zap.Int("compacted_categories", res.CompactedCategories))
		return res, nil
	})
}

// Export writes the table to path through the destination connector for
// format. An unrecognized format is a configuration error; a sticky error
// from an earlier stage is returned without writing.
func (c *Cleaner) Export(ctx context.Context, path, format string) error {
	destType, err := destinationForFormat(format)
	if err != nil {
		return err
	}
	cfg := &config.ConnectorConfig{
		Name: "export",
		Type: destType,
		Path: path,
	}
	return c.ExportTo(ctx, destType, cfg)
}

// ExportTo writes the table through an explicitly configured destination
// connector.
func (c *Cleaner) ExportTo(ctx context.Context, destType string, cfg *config.ConnectorConfig) error {
	if c.err != nil {
		return c.err
	}
	dest, err := registry.CreateDestination(destType, cfg)
	if err != nil {
		return err
	}
	if err := dest.Initialize(ctx, cfg); err != nil {
		return err
	}
	defer func() { _ = dest.Close(ctx) }()

	ctx, span := observability.StartConnector(ctx, destType, "write")
	err = dest.Write(ctx, c.tbl)
	span.End()
	if err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.RecordWrite(destType, c.tbl.NumRows())
	}
	c.log.Info("table exported",
		zap.String("destination", destType),
		zap.Int("rows", c.tbl.NumRows()),
		zap.Int("columns", c.tbl.NumCols()))
	return nil
}

// stage runs one cleaning stage with timing, tracing and report capture.
// Sticky errors short-circuit; a failing stage leaves the table at its
// pre-call state, so the chain freezes consistently.
func (c *Cleaner) stage(name string, fn func() (interface{}, error)) *Cleaner {
	if c.err != nil {
		return c
	}
	_, span := observability.StartStage(context.Background(), c.report.RunID, name)
	defer span.End()

	rowsBefore := c.tbl.NumRows()
	start := time.Now()
	details, err := fn()
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveStage(name, elapsed)
	}
	if err != nil {
		c.err = err
		c.log.Error("stage failed", zap.String("stage", name), zap.Error(err))
		return c
	}
	c.report.addStage(StageReport{
		Stage:      name,
		Duration:   elapsed,
		RowsBefore: rowsBefore,
		RowsAfter:  c.tbl.NumRows(),
		Details:    details,
	})
	return c
}

// destinationForFormat maps an export format name to a registered
// destination connector type.
func destinationForFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "csv":
		return "csv", nil
	case "json":
		return "json", nil
	case "parquet":
		return "parquet", nil
	case "excel", "xlsx":
		return "excel", nil
	case "sql":
		return "sql", nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, "unsupported export format %q", format)
	}
}

// FormatForPath guesses the export format from a file extension,
// unwrapping a compression suffix first. Unknown extensions default to
// CSV.
func FormatForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".gzip", ".zst", ".zstd", ".lz4", ".snappy", ".sz":
		return FormatForPath(strings.TrimSuffix(path, filepath.Ext(path)))
	case ".json", ".ndjson", ".jsonl":
		return "json"
	case ".parquet":
		return "parquet"
	case ".xlsx", ".xls":
		return "excel"
	default:
		return "csv"
	}
}
