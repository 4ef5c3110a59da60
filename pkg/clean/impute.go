package clean

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/stats"
	"github.com/scourdata/scour/pkg/table"
)

// ImputeResult reports what the imputation stage filled.
type ImputeResult struct {
	ImputedCells      int `json:"imputed_cells"`
	ImputedColumns    int `json:"imputed_columns"`
	AllMissingColumns int `json:"all_missing_columns"`
}

// ImputeMissing fills every missing cell per column: numeric columns get
// the column median, everything else gets the column mode (ties break to
// the first value reaching the maximum frequency in row order). A column
// with no non-missing values has no statistic to compute and is left
// fully missing; that is deliberate policy, not an error. Never changes
// row or column counts.
func ImputeMissing(tbl *table.Table, classifier *schema.Classifier) ImputeResult {
	var res ImputeResult
	log := logger.Get()

	for _, col := range tbl.Columns() {
		if col.Missing() == 0 {
			continue
		}
		if col.Missing() == col.Len() {
			res.AllMissingColumns++
			log.Debug("column fully missing, left unfilled",
				zap.String("column", col.Name()))
			continue
		}

		var fill interface{}
		if classifier.Classify(col) == table.KindNumeric {
			vals := numericValues(col)
			if len(vals) == 0 {
				log.Debug("numeric column has no parseable values, left unfilled",
					zap.String("column", col.Name()))
				continue
			}
			fill = stats.Median(vals)
		} else {
			values := make([]interface{}, col.Len())
			for i := 0; i < col.Len(); i++ {
				values[i] = col.Value(i)
			}
			mode, ok := stats.Mode(values)
			if !ok {
				continue
			}
			fill = mode
		}

		filled := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				col.SetValue(i, fill)
				filled++
			}
		}
		res.ImputedCells += filled
		res.ImputedColumns++
	}

	return res
}

// numericValues collects the cells that are float64 or parse as one, in
// row order. Tables built without ingestion normalization can carry
// numeric-looking strings; the median must come from those values, not
// from an empty sample.
func numericValues(col *table.Column) []float64 {
	out := make([]float64, 0, col.Len()-col.Missing())
	for i := 0; i < col.Len(); i++ {
		switch v := col.Value(i).(type) {
		case float64:
			out = append(out, v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				out = append(out, f)
			}
		}
	}
	return out
}
