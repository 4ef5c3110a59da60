// Package base provides the shared plumbing connectors embed: a named
// logger, the parsed configuration and a retry helper with exponential
// backoff for dial-time failures. The cleaning engine itself never
// retries; only connector I/O does.
package base

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/logger"
)

// Connector is the common state of every source and destination. Embed it
// and call Configure from Initialize.
type Connector struct {
	name          string
	connectorType string
	cfg           *config.ConnectorConfig
	log           *zap.Logger

	retryAttempts int
	retryDelay    time.Duration
	retryMax      time.Duration
}

// NewConnector creates the embedded base for a connector of the given
// registered name and role ("source" or "destination").
func NewConnector(name, connectorType string) Connector {
	return Connector{
		name:          name,
		connectorType: connectorType,
		log: logger.Get().With(
			zap.String("connector", name),
			zap.String("role", connectorType),
		),
		retryAttempts: 3,
		retryDelay:    time.Second,
		retryMax:      30 * time.Second,
	}
}

// Configure validates and stores the connector configuration, picking up
// the optional retry overrides.
func (c *Connector) Configure(cfg *config.ConnectorConfig) error {
	if cfg == nil {
		return errors.New(errors.ErrorTypeConfig, "connector configuration is nil")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid connector configuration")
	}
	c.cfg = cfg
	c.retryAttempts = cfg.Options.Int("retry_attempts", c.retryAttempts)
	if d := cfg.Options.Int("retry_delay_ms", 0); d > 0 {
		c.retryDelay = time.Duration(d) * time.Millisecond
	}
	return nil
}

// Name returns the registered connector name.
func (c *Connector) Name() string { return c.name }

// Type returns the connector role.
func (c *Connector) Type() string { return c.connectorType }

// Config returns the stored configuration, nil before Configure.
func (c *Connector) Config() *config.ConnectorConfig { return c.cfg }

// Logger returns the connector-scoped logger.
func (c *Connector) Logger() *zap.Logger { return c.log }

// Retry runs fn up to the configured attempt count with exponential
// backoff, giving up early on non-retryable errors and context
// cancellation.
func (c *Connector) Retry(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying operation",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, op+" canceled")
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.retryMax {
				delay = c.retryMax
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !errors.IsRetryable(err) {
			return err
		}
	}
	return errors.Wrap(err, errors.ErrorTypeConnection, op+" failed after retries")
}
