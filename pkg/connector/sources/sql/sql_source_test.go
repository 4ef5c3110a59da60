package sql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/errors"
)

func TestInitializeRequiresQuery(t *testing.T) {
	src := NewSource()
	err := src.Initialize(context.Background(), &config.ConnectorConfig{
		Name: "in", Type: "sql", Path: "postgres://localhost/db",
	})
	assert.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	src := NewSource()
	err := src.Initialize(context.Background(), &config.ConnectorConfig{
		Name: "in", Type: "sql", Path: "dsn",
		Options: config.Options{"driver": "oracle", "query": "SELECT 1"},
	})
	assert.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCloseBeforeInitialize(t *testing.T) {
	assert.NoError(t, NewSource().Close(context.Background()))
}
