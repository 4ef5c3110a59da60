// Package core defines the connector contracts of scour. Sources produce
// a whole table in one Load call and destinations consume one in a single
// Write; streaming is out of scope since the cleaning engine assumes the
// table fits in memory.
package core

import (
	"context"
	"strconv"
	"time"

	"github.com/scourdata/scour/pkg/config"
	stringpool "github.com/scourdata/scour/pkg/strings"
	"github.com/scourdata/scour/pkg/table"
)

// ConnectorType distinguishes sources from destinations.
type ConnectorType string

const (
	ConnectorTypeSource      ConnectorType = "source"
	ConnectorTypeDestination ConnectorType = "destination"
)

// Source is the interface all source connectors implement. Load returns a
// table meeting the invariants of the table package: equal column
// lengths, unique names, nil as the missing marker, cells normalized to
// float64, string or time.Time.
type Source interface {
	Initialize(ctx context.Context, cfg *config.ConnectorConfig) error
	Load(ctx context.Context) (*table.Table, error)
	Close(ctx context.Context) error
}

// Destination is the interface all destination connectors implement.
// Write serializes the table as-is; connectors make no assumptions about
// which cleaning stages ran.
type Destination interface {
	Initialize(ctx context.Context, cfg *config.ConnectorConfig) error
	Write(ctx context.Context, tbl *table.Table) error
	Close(ctx context.Context) error
}

// FormatCell renders a cell for text-based sinks (CSV, Excel, SQL text
// columns). Missing renders as the empty string; datetimes carry a clock
// only when they have one.
func FormatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return stringpool.ValueToString(v)
	}
}

// NormalizeCell converts a freshly decoded value into a cell: empty
// strings become the missing marker, integer-ish numbers become float64,
// time values pass through, everything else is stringified.
func NormalizeCell(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		return x
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x
	case []byte:
		if len(x) == 0 {
			return nil
		}
		return string(x)
	default:
		return stringpool.ValueToString(v)
	}
}
