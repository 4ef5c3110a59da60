// Package sql provides the SQL source connector over database/sql,
// with the pgx and mysql drivers linked in. The connector Path is the
// driver DSN; the query option selects the rows to clean.
package sql

import (
	"context"
	"database/sql"
	"strconv"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/config"
	"github.com/scourdata/scour/pkg/connector/base"
	"github.com/scourdata/scour/pkg/connector/core"
	"github.com/scourdata/scour/pkg/connector/registry"
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterSource("sql", func(cfg *config.ConnectorConfig) (core.Source, error) {
		return NewSource(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "sql",
		Type:        string(core.ConnectorTypeSource),
		Description: "Loads the result set of a query from PostgreSQL or MySQL",
		Version:     "1.0.0",
	})
}

// Source loads a query result into a table. Options: "driver" ("pgx" or
// "mysql", default "pgx") and "query" (required).
type Source struct {
	base.Connector

	dsn    string
	driver string
	query  string

	db *sql.DB
}

// NewSource creates an unconfigured SQL source.
func NewSource() *Source {
	return &Source{Connector: base.NewConnector("sql", string(core.ConnectorTypeSource))}
}

// Initialize parses the configuration and opens the connection pool,
// retrying the initial ping on transient failures.
func (s *Source) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := s.Configure(cfg); err != nil {
		return err
	}

	driver := cfg.Options.String("driver", "pgx")
	if driver != "pgx" && driver != "mysql" {
		return errors.Newf(errors.ErrorTypeConfig, "unsupported sql driver %q", driver)
	}
	query := cfg.Options.String("query", "")
	if query == "" {
		return errors.New(errors.ErrorTypeConfig, "sql source requires a query option")
	}

	db, err := sql.Open(driver, cfg.Path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to open database")
	}
	if err := s.Retry(ctx, "ping", func() error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConnection, "database unreachable")
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return err
	}

	s.dsn = cfg.Path
	s.driver = driver
	s.query = query
	s.db = db
	return nil
}

// Load runs the query and builds a table over its result set. Driver
// values arrive as int64, float64, []byte, string, time.Time or nil and
// normalize into cells accordingly.
func (s *Source) Load(ctx context.Context) (*table.Table, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "query failed")
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to read result columns")
	}

	// Result sets may repeat a column label; suffix duplicates so the
	// table invariant of unique names holds.
	cols := make([]*table.Column, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		seen[name]++
		cols[i] = table.NewColumn(name, table.KindUnknown)
	}

	values := make([]interface{}, len(names))
	scan := make([]interface{}, len(names))
	for i := range values {
		scan[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeQuery, "failed to scan row")
		}
		for i, v := range values {
			cols[i].Append(core.NormalizeCell(v))
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeQuery, "result iteration failed")
	}

	tbl, err := table.FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	schema.NewClassifier().Normalize(tbl)

	s.Logger().Info("query result loaded",
		zap.String("driver", s.driver),
		zap.Int("rows", count),
		zap.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// Close releases the connection pool.
func (s *Source) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
