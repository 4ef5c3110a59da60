package clean

import (
	"github.com/scourdata/scour/pkg/errors"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/stats"
	"github.com/scourdata/scour/pkg/table"
)

// OutlierMethod selects how out-of-bound values are handled.
type OutlierMethod string

const (
	// OutlierCap replaces each outlier with the nearer IQR bound
	// (Winsorizing). Row count is unchanged.
	OutlierCap OutlierMethod = "cap"
	// OutlierRemove drops every row containing an outlier in any numeric
	// column.
	OutlierRemove OutlierMethod = "remove"
)

// DefaultOutlierThreshold is the conventional IQR multiplier.
const DefaultOutlierThreshold = 1.5

// OutlierResult reports what the outlier stage changed.
type OutlierResult struct {
	CappedCells     int `json:"capped_cells"`
	RemovedRows     int `json:"removed_rows"`
	AffectedColumns int `json:"affected_columns"`
}

// HandleOutliers computes per-column IQR bounds [Q1 - t*IQR, Q3 + t*IQR]
// over the non-missing values of every numeric column and applies the
// selected policy. A value is an outlier iff strictly outside its bounds,
// so a zero IQR collapses the bounds and makes every non-equal value an
// outlier. In remove mode each column's bounds come from the full
// pre-removal table; they are never recomputed as rows drop out.
//
// An unknown method or negative threshold is a configuration error,
// returned before any mutation.
func HandleOutliers(tbl *table.Table, threshold float64, method OutlierMethod, classifier *schema.Classifier) (OutlierResult, error) {
	var res OutlierResult

	if method != OutlierCap && method != OutlierRemove {
		return res, errors.Newf(errors.ErrorTypeConfig,
			"unknown outlier method %q, use %q or %q", method, OutlierCap, OutlierRemove)
	}
	if threshold < 0 {
		return res, errors.Newf(errors.ErrorTypeConfig,
			"outlier threshold must not be negative, got %g", threshold)
	}

	type bounds struct {
		col          *table.Column
		lower, upper float64
	}
	var numeric []bounds
	for _, col := range tbl.Columns() {
		if classifier.Classify(col) != table.KindNumeric {
			continue
		}
		values := col.Float64s()
		if len(values) == 0 {
			continue
		}
		q1, q3 := stats.Quartiles(values)
		iqr := q3 - q1
		numeric = append(numeric, bounds{
			col:   col,
			lower: q1 - threshold*iqr,
			upper: q3 + threshold*iqr,
		})
	}

	if method == OutlierCap {
		for _, nb := range numeric {
			capped := 0
			for i := 0; i < nb.col.Len(); i++ {
				v, ok := nb.col.Value(i).(float64)
				if !ok {
					continue
				}
				if v < nb.lower {
					nb.col.SetValue(i, nb.lower)
					capped++
				} else if v > nb.upper {
					nb.col.SetValue(i, nb.upper)
					capped++
				}
			}
			if capped > 0 {
				res.CappedCells += capped
				res.AffectedColumns++
			}
		}
		return res, nil
	}

	keep := make([]bool, tbl.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, nb := range numeric {
		affected := false
		for i := 0; i < nb.col.Len(); i++ {
			v, ok := nb.col.Value(i).(float64)
			if !ok {
				continue // missing cells never mark a row for removal
			}
			if v < nb.lower || v > nb.upper {
				keep[i] = false
				affected = true
			}
		}
		if affected {
			res.AffectedColumns++
		}
	}
	res.RemovedRows = tbl.FilterRows(keep)
	return res, nil
}
