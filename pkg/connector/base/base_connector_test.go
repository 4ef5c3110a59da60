package base

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/errors"
)

func TestConfigureValidatesAndStoresOptions(t *testing.T) {
	c := NewConnector("csv", "source")

	require.Error(t, c.Configure(nil))
	require.Error(t, c.Configure(&config.ConnectorConfig{Type: "csv"}))

	cfg := &config.ConnectorConfig{
		Name: "in", Type: "csv", Path: "data.csv",
		Options: config.Options{"retry_attempts": 5, "retry_delay_ms": 10},
	}
	require.NoError(t, c.Configure(cfg))
	assert.Equal(t, cfg, c.Config())
	assert.Equal(t, "csv", c.Name())
	assert.Equal(t, "source", c.Type())
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	c := NewConnector("test", "source")
	require.NoError(t, c.Configure(&config.ConnectorConfig{
		Name: "t", Type: "test", Path: "p",
		Options: config.Options{"retry_delay_ms": 1},
	}))

	calls := 0
	err := c.Retry(context.Background(), "op", func() error {
		calls++
		return errors.New(errors.ErrorTypeConfig, "bad config")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRetriesRetryableErrors(t *testing.T) {
	c := NewConnector("test", "source")
	require.NoError(t, c.Configure(&config.ConnectorConfig{
		Name: "t", Type: "test", Path: "p",
		Options: config.Options{"retry_attempts": 3, "retry_delay_ms": 1},
	}))

	calls := 0
	err := c.Retry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New(errors.ErrorTypeConnection, "transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsCancellation(t *testing.T) {
	c := NewConnector("test", "source")
	require.NoError(t, c.Configure(&config.ConnectorConfig{
		Name: "t", Type: "test", Path: "p",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Retry(ctx, "op", func() error {
		return errors.New(errors.ErrorTypeConnection, "transient")
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}
