// Package config provides the configuration surface of scour: connector
// configs for sources and destinations, the cleaning-chain settings, and
// the YAML job file the CLI consumes. Loose connector options live in a
// cast-backed map so each connector can pull what it needs without a
// per-connector struct.
package config

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/scourdata/scour/pkg/clean"
)

// ConnectorConfig configures a single source or destination connector.
type ConnectorConfig struct {
	// Name identifies the connector instance in logs and metrics
	Name string `yaml:"name" json:"name"`
	// Type selects the registered connector ("csv", "json", "parquet",
	// "excel", "sql")
	Type string `yaml:"type" json:"type"`
	// Path is the file path for file connectors or the DSN for sql
	Path string `yaml:"path" json:"path"`
	// Options holds connector-specific settings (delimiter, sheet,
	// driver, query, table, compression, ...)
	Options Options `yaml:"options" json:"options"`
}

// Validate checks the fields every connector requires.
func (c *ConnectorConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("connector type is required")
	}
	if c.Path == "" {
		return fmt.Errorf("connector path is required")
	}
	return nil
}

// Options is a loose key-value map of connector settings with typed,
// defaulted accessors.
type Options map[string]interface{}

// String returns the option as a string, or def when absent.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		return cast.ToString(v)
	}
	return def
}

// Int returns the option as an int, or def when absent.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		return cast.ToInt(v)
	}
	return def
}

// Float returns the option as a float64, or def when absent.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		return cast.ToFloat64(v)
	}
	return def
}

// Bool returns the option as a bool, or def when absent.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		return cast.ToBool(v)
	}
	return def
}

// OutlierConfig configures the outlier-handling stage.
type OutlierConfig struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Method    string  `yaml:"method" json:"method"`
}

// CleaningConfig selects which stages a job runs. The runner applies the
// enabled stages in the conventional order: standardize, garbage, impute,
// outliers, optimize.
type CleaningConfig struct {
	Standardize   bool          `yaml:"standardize" json:"standardize"`
	HandleGarbage bool          `yaml:"handle_garbage" json:"handle_garbage"`
	Impute        bool          `yaml:"impute" json:"impute"`
	Outliers      OutlierConfig `yaml:"outliers" json:"outliers"`
	Optimize      bool          `yaml:"optimize" json:"optimize"`
}

// LoggingConfig configures the zap logger for a job.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

// MetricsConfig configures the Prometheus listener for a job.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// JobConfig is a complete cleaning job: load, clean, write.
type JobConfig struct {
	Name        string          `yaml:"name" json:"name"`
	Source      ConnectorConfig `yaml:"source" json:"source"`
	Destination ConnectorConfig `yaml:"destination" json:"destination"`
	Cleaning    CleaningConfig  `yaml:"cleaning" json:"cleaning"`
	Logging     LoggingConfig   `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig   `yaml:"metrics" json:"metrics"`
	Tracing     bool            `yaml:"tracing" json:"tracing"`
	// ReportPath, when set, receives the JSON cleaning report
	ReportPath string `yaml:"report_path" json:"report_path"`
}

// NewJobConfig returns a job with every stage enabled and the
// conventional outlier defaults.
func NewJobConfig(name string) *JobConfig {
	return &JobConfig{
		Name: name,
		Cleaning: CleaningConfig{
			Standardize:   true,
			HandleGarbage: true,
			Impute:        true,
			Outliers: OutlierConfig{
				Enabled:   true,
				Threshold: clean.DefaultOutlierThreshold,
				Method:    string(clean.OutlierCap),
			},
			Optimize: true,
		},
		Logging: LoggingConfig{Level: "info", Encoding: "console"},
	}
}

// Validate checks the whole job configuration.
func (j *JobConfig) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if err := j.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := j.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if j.Cleaning.Outliers.Enabled {
		m := clean.OutlierMethod(j.Cleaning.Outliers.Method)
		if m != clean.OutlierCap && m != clean.OutlierRemove {
			return fmt.Errorf("outliers: unknown method %q", j.Cleaning.Outliers.Method)
		}
		if j.Cleaning.Outliers.Threshold < 0 {
			return fmt.Errorf("outliers: threshold must not be negative")
		}
	}
	return nil
}
