// Package scour provides a tabular data cleaning engine: load a dataset
// from CSV, JSON, Parquet, Excel or SQL, run a configurable chain of
// cleaning stages over it, and write the result to any supported
// destination.
//
// # Cleaning stages
//
// The engine applies up to five stages, each idempotent and each
// operating on the whole in-memory table:
//
//  1. Standardize: column names become unique snake_case identifiers,
//     text cells lose surrounding whitespace.
//  2. Garbage: exact-duplicate rows and all-missing rows are removed.
//  3. Impute: missing numeric cells are filled with the column median,
//     everything else with the deterministic mode.
//  4. Outliers: numeric cells outside the IQR bounds are capped to the
//     bounds or their rows removed.
//  5. Optimize: datetime-named text columns are parsed into real
//     datetimes, low-cardinality text columns are dictionary-encoded.
//
// # Quick Start
//
// Clean a CSV file into Parquet:
//
//	import (
//	    "context"
//	    "github.com/scourdata/scour/pkg/clean"
//	    "github.com/scourdata/scour/pkg/config"
//	    "github.com/scourdata/scour/pkg/pipeline"
//	    _ "github.com/scourdata/scour/pkg/connector/destinations/parquet"
//	    _ "github.com/scourdata/scour/pkg/connector/sources/csv"
//	)
//
//	ctx := context.Background()
//	c, err := pipeline.Open(ctx, "csv", &config.ConnectorConfig{
//	    Name: "raw", Type: "csv", Path: "raw.csv",
//	})
//	if err != nil {
//	    return err
//	}
//	c.Standardize().
//	    HandleGarbage().
//	    ImputeMissing().
//	    HandleOutliers(1.5, clean.OutlierCap).
//	    Optimize()
//	return c.Export(ctx, "clean.parquet", "parquet")
//
// # Key Packages
//
//	pkg/table     - In-memory columnar table with a missing marker
//	pkg/clean     - The five cleaning stages
//	pkg/schema    - Column classification (numeric, datetime, category)
//	pkg/pipeline  - Fluent orchestrator, stage reports
//	pkg/connector - Source and destination connectors
//	pkg/config    - YAML job configuration
//	pkg/stats     - Quantiles, median, mode
//	pkg/metrics   - Prometheus instrumentation
//
// # Command line
//
// The scour binary wraps the same engine:
//
//	scour clean -i raw.csv -o clean.parquet
//	scour run --config job.yaml
//	scour list
//
// Environment variables in job files are supported with ${VAR_NAME}
// syntax; a .env file is loaded when present.
package scour
