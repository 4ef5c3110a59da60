package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scourdata/scour/internal/runner"
	"github.com/scourdata/scour/pkg/clean"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/pipeline"
	"github.com/scourdata/scour/pkg/table"

	// Import all available connectors to register them
	_ "github.com/scourdata/scour/pkg/connector/destinations/csv"
	_ "github.com/scourdata/scour/pkg/connector/destinations/excel"
	_ "github.com/scourdata/scour/pkg/connector/destinations/json"
	_ "github.com/scourdata/scour/pkg/connector/destinations/parquet"
	_ "github.com/scourdata/scour/pkg/connector/destinations/sql"
	_ "github.com/scourdata/scour/pkg/connector/sources/csv"
	_ "github.com/scourdata/scour/pkg/connector/sources/excel"
	_ "github.com/scourdata/scour/pkg/connector/sources/json"
	_ "github.com/scourdata/scour/pkg/connector/sources/parquet"
	_ "github.com/scourdata/scour/pkg/connector/sources/sql"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "scour",
		Short: "Scour - tabular data cleaning engine",
		Long: `Scour loads tabular data from CSV, JSON, Parquet, Excel or SQL,
runs a configurable cleaning chain over it (column standardization,
duplicate and empty-row removal, missing-value imputation, IQR outlier
handling, type optimization) and writes the result to any supported
destination.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Scour v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available Source Connectors:")
			for _, source := range registry.ListSources() {
				fmt.Printf("  - %s\n", source)
			}
			fmt.Println("\nAvailable Destination Connectors:")
			for _, dest := range registry.ListDestinations() {
				fmt.Printf("  - %s\n", dest)
			}
		},
	})

	root.AddCommand(newRunCommand())
	root.AddCommand(newCleanCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCommand runs a full job from a YAML configuration file.
func newRunCommand() *cobra.Command {
	var configFile, metricsAddr string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a cleaning job from a YAML configuration file",
		Long: `Run a cleaning job defined in a YAML file: source, destination,
stage selection, logging, metrics and report output.

Example:
  scour run --config job.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobCfg, err := config.LoadJob(configFile)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				jobCfg.Metrics.Enabled = true
				jobCfg.Metrics.Addr = metricsAddr
			}
			if err := initLogger(jobCfg.Logging); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			_, err = runner.New(jobCfg).Run(ctx)
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to the job YAML file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (overrides the config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Job timeout")
	return cmd
}

// newCleanCommand is the quick path: clean one file into another without
// writing a job configuration.
func newCleanCommand() *cobra.Command {
	var input, output, outlierMethod, sqlQuery, logLevel, reportPath string
	var outlierThreshold float64
	var noImpute, noOptimize, noOutliers, lenient bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean one file into another",
		Long: `Clean a single input into a single output, inferring the connector
from the file extension (csv, json, parquet, xlsx; compressed variants
like .csv.gz work transparently).

Example:
  scour clean -i raw.csv -o clean.parquet
  scour clean -i "postgres://..." -o out.csv --sql-query "SELECT * FROM sales"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(config.LoggingConfig{Level: logLevel, Encoding: "console"}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			sourceType := pipeline.FormatForPath(input)
			sourceCfg := &config.ConnectorConfig{Name: "input", Type: sourceType, Path: input}
			if sqlQuery != "" {
				sourceType = "sql"
				sourceCfg.Type = "sql"
				sourceCfg.Options = config.Options{"query": sqlQuery}
			}

			c, err := pipeline.Open(ctx, sourceType, sourceCfg)
			if err != nil {
				if !lenient {
					return err
				}
				// Lenient mode keeps going with an empty table so the
				// output artifact still gets written.
				logger.Get().Warn("input could not be loaded, continuing with an empty table",
					zap.String("input", input), zap.Error(err))
				c = pipeline.New(table.New())
			}

			c.Standardize().HandleGarbage()
			if !noImpute {
				c.ImputeMissing()
			}
			if !noOutliers {
				c.HandleOutliers(outlierThreshold, clean.OutlierMethod(outlierMethod))
			}
			if !noOptimize {
				c.Optimize()
			}

			if err := c.Export(ctx, output, pipeline.FormatForPath(output)); err != nil {
				return err
			}
			if reportPath != "" {
				if err := c.Report().WriteFile(reportPath); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file path or DSN (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (required)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	cmd.Flags().StringVar(&outlierMethod, "outlier-method", string(clean.OutlierCap), "Outlier handling: cap or remove")
	cmd.Flags().Float64Var(&outlierThreshold, "outlier-threshold", clean.DefaultOutlierThreshold, "IQR multiplier for the outlier bounds")
	cmd.Flags().BoolVar(&noOutliers, "no-outliers", false, "Skip outlier handling")
	cmd.Flags().BoolVar(&noImpute, "no-impute", false, "Skip missing-value imputation")
	cmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "Skip type optimization")
	cmd.Flags().StringVar(&sqlQuery, "sql-query", "", "Treat the input as a database DSN and load this query")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Log ingestion failures and continue with an empty table")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the JSON cleaning report to this path")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Cleaning timeout")
	return cmd
}

func initLogger(cfg config.LoggingConfig) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}
	if err := logger.Init(logger.Config{Level: level, Encoding: encoding}); err != nil {
		return err
	}
	logger.Get().Debug("logger initialized", zap.String("level", level))
	return nil
}
