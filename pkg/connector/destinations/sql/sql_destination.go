// Package sql provides the SQL destination connector over database/sql,
// with the pgx and mysql drivers linked in. The cleaned table replaces
// the target table wholesale: drop, create, batched inserts, one
// transaction.
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
	stringpool "github.com/scourdata/scour/pkg/strings"
	"github.com/scourdata/scour/pkg/table"
)

func init() {
	_ = registry.RegisterDestination("sql", func(cfg *config.ConnectorConfig) (core.Destination, error) {
		return NewDestination(), nil
	})
	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:        "sql",
		Type:        string(core.ConnectorTypeDestination),
		Description: "Replaces a PostgreSQL or MySQL table with the cleaned rows",
		Version:     "1.0.0",
	})
}

const defaultBatchSize = 500

// Destination writes a table into a database. Options: "driver" ("pgx"
// or "mysql", default "pgx"), "table" (default "data_limpia"),
// "batch_size" (rows per insert statement, default 500).
type Destination struct {
	base.Connector

	driver    string
	tableName string
	batchSize int

	db *sql.DB
}

// NewDestination creates an unconfigured SQL destination.
func NewDestination() *Destination {
	return &Destination{Connector: base.NewConnector("sql", string(core.ConnectorTypeDestination))}
}

// Initialize parses the configuration and opens the connection pool,
// retrying the initial ping on transient failures.
func (d *Destination) Initialize(ctx context.Context, cfg *config.ConnectorConfig) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}

	driver := cfg.Options.String("driver", "pgx")
	if driver != "pgx" && driver != "mysql" {
		return errors.Newf(errors.ErrorTypeConfig, "unsupported sql driver %q", driver)
	}
	batch := cfg.Options.Int("batch_size", defaultBatchSize)
	if batch < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "batch_size must be positive, got %d", batch)
	}

	db, err := sql.Open(driver, cfg.Path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to open database")
	}
	if err := d.Retry(ctx, "ping", func() error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConnection, "database unreachable")
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return err
	}

	d.driver = driver
	d.tableName = cfg.Options.String("table", "data_limpia")
	d.batchSize = batch
	d.db = db
	return nil
}

// Write replaces the target table inside one transaction. Numeric columns
// map to double precision, datetime to timestamp, everything else to
// text; missing cells insert as NULL.
func (d *Destination) Write(ctx context.Context, tbl *table.Table) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, d.dropStatement()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeQuery, "failed to drop existing table")
	}
	if _, err := tx.ExecContext(ctx, d.createStatement(tbl)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeQuery, "failed to create table")
	}

	cols := tbl.Columns()
	args := make([]interface{}, 0, d.batchSize*len(cols))
	batchRows := 0
	for i := 0; i < tbl.NumRows(); i++ {
		for _, col := range cols {
			args = append(args, col.Value(i))
		}
		batchRows++
		if batchRows == d.batchSize {
			if err := d.insertBatch(ctx, tx, tbl, args, batchRows); err != nil {
				return err
			}
			args = args[:0]
			batchRows = 0
		}
	}
	if batchRows > 0 {
		if err := d.insertBatch(ctx, tx, tbl, args, batchRows); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to commit")
	}

	d.Logger().Info("table written to database",
		zap.String("driver", d.driver),
		zap.String("table", d.tableName),
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", tbl.NumCols()))
	return nil
}

// Close releases the connection pool.
func (d *Destination) Close(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *Destination) identifierQuote() byte {
	if d.driver == "mysql" {
		return '`'
	}
	return '"'
}

func (d *Destination) dropStatement() string {
	sb := stringpool.NewSQLBuilder(64).WithIdentifierQuote(d.identifierQuote())
	defer sb.Close()
	sb.WriteQuery("DROP TABLE IF EXISTS").WriteSpace().WriteIdentifier(d.tableName)
	return sb.String()
}

func (d *Destination) createStatement(tbl *table.Table) string {
	sb := stringpool.NewSQLBuilder(256).WithIdentifierQuote(d.identifierQuote())
	defer sb.Close()
	sb.WriteQuery("CREATE TABLE").WriteSpace().WriteIdentifier(d.tableName).WriteQuery(" (")
	for i, col := range tbl.Columns() {
		if i > 0 {
			sb.WriteQuery(", ")
		}
		sb.WriteIdentifier(col.Name()).WriteSpace().WriteQuery(d.columnType(col.Kind()))
	}
	sb.WriteQuery(")")
	return sb.String()
}

func (d *Destination) columnType(kind table.Kind) string {
	switch kind {
	case table.KindNumeric:
		if d.driver == "mysql" {
			return "DOUBLE"
		}
		return "DOUBLE PRECISION"
	case table.KindDatetime:
		if d.driver == "mysql" {
			return "DATETIME"
		}
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// insertBatch issues one multi-row INSERT for the buffered cells.
func (d *Destination) insertBatch(ctx context.Context, tx *sql.Tx, tbl *table.Table, args []interface{}, rows int) error {
	sb := stringpool.NewSQLBuilder(1024).WithIdentifierQuote(d.identifierQuote())
	defer sb.Close()

	sb.WriteQuery("INSERT INTO").WriteSpace().WriteIdentifier(d.tableName).WriteQuery(" (")
	for i, col := range tbl.Columns() {
		if i > 0 {
			sb.WriteQuery(", ")
		}
		sb.WriteIdentifier(col.Name())
	}
	sb.WriteQuery(") VALUES ")

	ncols := tbl.NumCols()
	arg := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteQuery(", ")
		}
		sb.WriteQuery("(")
		for c := 0; c < ncols; c++ {
			if c > 0 {
				sb.WriteQuery(", ")
			}
			if d.driver == "mysql" {
				sb.WriteQuery("?")
			} else {
				sb.WriteQuery("$" + strconv.Itoa(arg))
			}
			arg++
		}
		sb.WriteQuery(")")
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return errors.Wrap(err, errors.ErrorTypeQuery, "failed to insert batch")
	}
	return nil
}
