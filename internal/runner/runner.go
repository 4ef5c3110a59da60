// Package runner executes a configured cleaning job end to end: load
// through the source connector, run the enabled stages in the
// conventional order, write through the destination connector, emit the
// report. The CLI is a thin shell around this package.
package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/clean"
	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/metrics"
	"github.com/scourdata/scour/pkg/observability"
	"github.com/scourdata/scour/pkg/pipeline"
)

// Runner executes one cleaning job.
type Runner struct {
	cfg *config.JobConfig
	log *zap.Logger
}

// New creates a runner for a validated job configuration.
func New(cfg *config.JobConfig) *Runner {
	return &Runner{
		cfg: cfg,
		log: logger.Get().With(zap.String("job", cfg.Name)),
	}
}

// Run executes the job and returns the cleaning report. The metrics
// listener, when enabled, keeps serving after Run returns so scrapers can
// collect the final values.
func (r *Runner) Run(ctx context.Context) (*pipeline.Report, error) {
	if r.cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(r.cfg.Metrics.Addr); err != nil {
				r.log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}
	if r.cfg.Tracing {
		shutdown, err := observability.InitTracing()
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				r.log.Warn("trace flush failed", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewCollector(r.cfg.Name)
	c, err := pipeline.Open(ctx, r.cfg.Source.Type, &r.cfg.Source,
		pipeline.WithMetrics(collector),
		pipeline.WithLogger(r.log))
	if err != nil {
		return nil, err
	}

	cleaning := r.cfg.Cleaning
	if cleaning.Standardize {
		c.Standardize()
	}
	if cleaning.HandleGarbage {
		c.HandleGarbage()
	}
	if cleaning.Impute {
		c.ImputeMissing()
	}
	if cleaning.Outliers.Enabled {
		c.HandleOutliers(cleaning.Outliers.Threshold, clean.OutlierMethod(cleaning.Outliers.Method))
	}
	if cleaning.Optimize {
		c.Optimize()
	}

	if err := c.ExportTo(ctx, r.cfg.Destination.Type, &r.cfg.Destination); err != nil {
		return nil, err
	}

	report := c.Report()
	if r.cfg.ReportPath != "" {
		if err := report.WriteFile(r.cfg.ReportPath); err != nil {
			return nil, err
		}
		r.log.Info("cleaning report written", zap.String("path", r.cfg.ReportPath))
	}
	r.log.Info("job finished",
		zap.String("run_id", report.RunID),
		zap.Int("initial_rows", report.InitialRows),
		zap.Int("final_rows", report.FinalRows))
	return report, nil
}
