// Package clean implements the in-place transformation stages of the
// cleaning engine: column-name standardization, duplicate and empty-row
// removal, statistical imputation, IQR outlier handling and schema
// optimization. Every stage mutates the table it is handed and reports
// what it changed; none of them retains a reference afterwards.
package clean

import (
	"strconv"
	"strings"

	"github.com/scourdata/scour/pkg/table"
)

// StandardizeResult reports what the standardize stage changed.
type StandardizeResult struct {
	RenamedColumns int `json:"renamed_columns"`
	TrimmedCells   int `json:"trimmed_cells"`
}

// Standardize rewrites every column name into a stable snake_case
// identifier and trims leading/trailing whitespace from every text cell.
// Names that collide after normalization get a numeric suffix (_2, _3, …)
// in column order; the first occurrence keeps the bare name. Idempotent.
func Standardize(tbl *table.Table) StandardizeResult {
	var res StandardizeResult

	seen := make(map[string]struct{}, tbl.NumCols())
	for _, col := range tbl.Columns() {
		name := NormalizeName(col.Name())
		if _, taken := seen[name]; taken {
			name = disambiguate(name, seen)
		}
		seen[name] = struct{}{}
		if name != col.Name() {
			col.Rename(name)
			res.RenamedColumns++
		}
	}

	for _, col := range tbl.Columns() {
		switch col.Kind() {
		case table.KindText, table.KindCategory, table.KindUnknown:
		default:
			continue
		}
		for i := 0; i < col.Len(); i++ {
			s, ok := col.Value(i).(string)
			if !ok {
				continue
			}
			if trimmed := strings.TrimSpace(s); trimmed != s {
				col.SetValue(i, trimmed)
				res.TrimmedCells++
			}
		}
	}

	return res
}

// NormalizeName lowercases a column name, replaces whitespace runs with a
// single underscore, strips everything outside [a-z0-9_] and collapses
// repeated underscores. A name that normalizes to nothing becomes "column".
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '_':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevUnderscore = false
		}
	}
	normalized := strings.Trim(b.String(), "_")
	if normalized == "" {
		return "column"
	}
	return normalized
}

// disambiguate appends the lowest free numeric suffix, starting at _2.
func disambiguate(name string, seen map[string]struct{}) string {
	for n := 2; ; n++ {
		candidate := name + "_" + strconv.Itoa(n)
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
	}
}
