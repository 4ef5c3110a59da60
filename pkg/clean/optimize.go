package clean

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/scourdata/scour/pkg/logger"
	"github.com/scourdata/scour/pkg/schema"
	"github.com/scourdata/scour/pkg/table"
)

// categoryCardinalityRatio is the cutoff below which a text column is
// dictionary-encoded: distinct non-missing values / row count.
const categoryCardinalityRatio = 0.10

// OptimizeResult reports what the optimize stage reclassified.
type OptimizeResult struct {
	PromotedDatetime    int   `json:"promoted_datetime"`
	CompactedCategories int   `json:"compacted_categories"`
	BytesBefore         int64 `json:"bytes_before"`
	BytesAfter          int64 `json:"bytes_after"`
}

// Optimize runs the two reclassification passes. First, text columns
// whose name matches the datetime heuristic are promoted to datetime;
// cells that fail every supported layout become missing. Numeric columns
// are never reinterpreted as epochs regardless of name. Second, text
// columns whose cardinality ratio falls strictly below 0.10 are
// dictionary-encoded; observable values are unchanged.
func Optimize(tbl *table.Table, classifier *schema.Classifier) OptimizeResult {
	res := OptimizeResult{BytesBefore: tbl.EstimateBytes()}
	log := logger.Get()

	for _, col := range tbl.Columns() {
		if !schema.IsDatetimeName(col.Name()) {
			continue
		}
		switch col.Kind() {
		case table.KindText, table.KindUnknown:
		default:
			continue
		}
		unparseable := 0
		for i := 0; i < col.Len(); i++ {
			s, ok := col.Value(i).(string)
			if !ok {
				if !col.IsMissing(i) {
					col.SetValue(i, nil)
					unparseable++
				}
				continue
			}
			if t, ok := schema.ParseTime(s); ok {
				col.SetValue(i, t)
			} else {
				col.SetValue(i, nil)
				unparseable++
			}
		}
		col.SetKind(table.KindDatetime)
		res.PromotedDatetime++
		log.Debug("column promoted to datetime",
			zap.String("column", col.Name()),
			zap.Int("unparseable_cells", unparseable))
	}

	rows := tbl.NumRows()
	if rows > 0 {
		for _, col := range tbl.Columns() {
			if classifier.Classify(col) != table.KindText {
				continue
			}
			ratio := float64(col.Cardinality()) / float64(rows)
			if ratio < categoryCardinalityRatio {
				col.EncodeCategory()
				res.CompactedCategories++
			}
		}
	}

	res.BytesAfter = tbl.EstimateBytes()
	logMemory(log, res)
	return res
}

// logMemory records the estimated table footprint and the process RSS at
// debug level. RSS lookup failures are ignored; this is telemetry only.
func logMemory(log *zap.Logger, res OptimizeResult) {
	fields := []zap.Field{
		zap.Int64("bytes_before", res.BytesBefore),
		zap.Int64("bytes_after", res.BytesAfter),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			fields = append(fields, zap.Uint64("process_rss", mem.RSS))
		}
	}
	log.Debug("table optimized", fields...)
}
