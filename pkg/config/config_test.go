package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/testutil"
)

func TestOptionsTypedAccessors(t *testing.T) {
	opts := Options{
		"delimiter":  ";",
		"batch_size": "250",
		"threshold":  1.5,
		"enabled":    "true",
	}

	assert.Equal(t, ";", opts.String("delimiter", ","))
	assert.Equal(t, ",", opts.String("missing", ","))
	assert.Equal(t, 250, opts.Int("batch_size", 100))
	assert.Equal(t, 100, opts.Int("missing", 100))
	assert.Equal(t, 1.5, opts.Float("threshold", 0))
	assert.True(t, opts.Bool("enabled", false))
	assert.False(t, opts.Bool("missing", false))
}

func TestConnectorConfigValidate(t *testing.T) {
	cfg := &ConnectorConfig{Name: "in", Type: "csv", Path: "data.csv"}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&ConnectorConfig{Path: "data.csv"}).Validate())
	assert.Error(t, (&ConnectorConfig{Type: "csv"}).Validate())
}

func TestJobConfigValidate(t *testing.T) {
	job := NewJobConfig("nightly")
	job.Source = ConnectorConfig{Name: "in", Type: "csv", Path: "in.csv"}
	job.Destination = ConnectorConfig{Name: "out", Type: "parquet", Path: "out.parquet"}
	assert.NoError(t, job.Validate())

	job.Cleaning.Outliers.Method = "winsorize"
	assert.Error(t, job.Validate())

	job.Cleaning.Outliers.Method = "cap"
	job.Cleaning.Outliers.Threshold = -1
	assert.Error(t, job.Validate())

	// Disabled outlier stage skips outlier validation entirely.
	job.Cleaning.Outliers.Enabled = false
	assert.NoError(t, job.Validate())

	job.Name = ""
	assert.Error(t, job.Validate())
}

func TestLoadJobFromYAML(t *testing.T) {
	path := testutil.TempFile(t, "job.yaml", `
name: nightly-clean
source:
  name: raw
  type: csv
  path: /data/raw.csv
  options:
    delimiter: ";"
destination:
  name: clean
  type: parquet
  path: /data/clean.parquet
cleaning:
  standardize: true
  handle_garbage: true
  impute: true
  outliers:
    enabled: true
    threshold: 1.5
    method: cap
  optimize: true
report_path: /data/report.json
`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly-clean", job.Name)
	assert.Equal(t, "csv", job.Source.Type)
	assert.Equal(t, ";", job.Source.Options.String("delimiter", ","))
	assert.Equal(t, "parquet", job.Destination.Type)
	assert.Equal(t, 1.5, job.Cleaning.Outliers.Threshold)
	assert.Equal(t, "/data/report.json", job.ReportPath)
}

func TestLoadJobRejectsInvalidConfig(t *testing.T) {
	path := testutil.TempFile(t, "job.yaml", `
name: broken
source:
  type: csv
  path: /data/raw.csv
destination:
  type: csv
  path: /data/out.csv
cleaning:
  outliers:
    enabled: true
    threshold: 1.5
    method: winsorize
`)
	_, err := LoadJob(path)
	assert.Error(t, err)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("SCOUR_TEST_PATH", "/tmp/source.csv")
	path := testutil.TempFile(t, "job.yaml", `
name: env-job
source:
  type: csv
  path: ${SCOUR_TEST_PATH}
destination:
  type: csv
  path: /data/out.csv
`)

	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/source.csv", job.Source.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
