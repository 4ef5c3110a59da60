// Package schema provides column classification for the cleaning engine.
// The classifier decides, per column, whether it is numeric, datetime
// eligible or categorical text; the imputation, outlier and optimize
// stages consume its verdicts.
package schema

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/table"
)

// dateLayouts are the supported datetime representations, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02-01-2006 15:04",
}

// datetimeNameFragments are the lexical markers that make a column name
// datetime-eligible. Values alone never trigger reclassification; a
// numeric-looking date column with a non-matching name stays numeric.
var datetimeNameFragments = []string{"date", "fecha", "datum", "timestamp"}

// Classifier inspects column values and names to decide kinds.
// Classification is recomputed on demand and is side-effect-free; only
// Normalize (at ingestion) and the optimize stage commit a kind change.
type Classifier struct {
	logger              *zap.Logger
	confidenceThreshold float64
}

// NewClassifier creates a classifier with the default 95% parse
// confidence threshold.
func NewClassifier() *Classifier {
	return &Classifier{
		logger:              logger.Get().With(zap.String("component", "classifier")),
		confidenceThreshold: 0.95,
	}
}

// Classify returns the kind of col without mutating it. Columns already
// committed to numeric, datetime or category keep their kind; unknown and
// text columns are inspected by value and name.
func (c *Classifier) Classify(col *table.Column) table.Kind {
	switch col.Kind() {
	case table.KindNumeric, table.KindDatetime, table.KindCategory:
		return col.Kind()
	}

	total := col.Len() - col.Missing()
	if total == 0 {
		return table.KindText
	}

	numeric, dates := 0, 0
	for i := 0; i < col.Len(); i++ {
		switch v := col.Value(i).(type) {
		case float64:
			numeric++
		case time.Time:
			dates++
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				numeric++
			} else if _, ok := ParseTime(v); ok {
				dates++
			}
		}
	}

	if float64(numeric)/float64(total) >= c.confidenceThreshold {
		return table.KindNumeric
	}
	if IsDatetimeName(col.Name()) && float64(dates)/float64(total) >= c.confidenceThreshold {
		return table.KindDatetime
	}
	return table.KindText
}

// Normalize commits classification at ingestion: string columns whose
// values clear the confidence threshold are converted to float64 or
// time.Time cells, everything else keeps its loaded representation.
// Connectors call this once after building a table; unparseable cells in
// a converted column become missing.
func (c *Classifier) Normalize(tbl *table.Table) {
	for _, col := range tbl.Columns() {
		if col.Kind() != table.KindUnknown {
			continue
		}
		kind := c.Classify(col)
		converted := 0
		switch kind {
		case table.KindNumeric:
			for i := 0; i < col.Len(); i++ {
				switch v := col.Value(i).(type) {
				case float64:
				case string:
					if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
						col.SetValue(i, f)
						converted++
					} else {
						col.SetValue(i, nil)
					}
				}
			}
		case table.KindDatetime:
			for i := 0; i < col.Len(); i++ {
				switch v := col.Value(i).(type) {
				case time.Time:
				case string:
					if t, ok := ParseTime(v); ok {
						col.SetValue(i, t)
						converted++
					} else {
						col.SetValue(i, nil)
					}
				}
			}
		default:
			col.SetKind(kind)
			continue
		}
		col.SetKind(kind)
		c.logger.Debug("column normalized at ingestion",
			zap.String("column", col.Name()),
			zap.String("kind", string(kind)),
			zap.Int("converted_cells", converted))
	}
}

// IsDatetimeName reports whether a column name matches the datetime name
// heuristic: it contains one of the known fragments or ends in "_dt".
func IsDatetimeName(name string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range datetimeNameFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return strings.HasSuffix(lower, "_dt")
}

// ParseTime parses s under the supported layouts, trying each in order.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
