package clean

import (
	stringpool "github.com/scourdata/scour/pkg/strings"
	"github.com/scourdata/scour/pkg/table"
)

// GarbageResult reports what the garbage stage removed.
type GarbageResult struct {
	DuplicateRows int `json:"duplicate_rows"`
	EmptyRows     int `json:"empty_rows"`
}

// RemoveGarbage drops exact-duplicate rows (keeping the first occurrence)
// and rows whose every cell is missing. Two missing markers compare equal
// for duplicate detection. Surviving rows keep their relative order; the
// row count never increases.
func RemoveGarbage(tbl *table.Table) GarbageResult {
	var res GarbageResult
	rows := tbl.NumRows()
	if rows == 0 {
		return res
	}

	keep := make([]bool, rows)
	seen := make(map[string]struct{}, rows)
	b := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(b, stringpool.Small)

	for i := 0; i < rows; i++ {
		if rowAllMissing(tbl, i) {
			res.EmptyRows++
			continue
		}
		key := tbl.RowKey(i, b)
		if _, dup := seen[key]; dup {
			res.DuplicateRows++
			continue
		}
		// The pooled builder's string is zero-copy; clone before it
		// escapes into the map.
		seen[stringpool.Clone(key)] = struct{}{}
		keep[i] = true
	}

	tbl.FilterRows(keep)
	return res
}

func rowAllMissing(tbl *table.Table, i int) bool {
	for _, col := range tbl.Columns() {
		if !col.IsMissing(i) {
			return false
		}
	}
	return true
}
