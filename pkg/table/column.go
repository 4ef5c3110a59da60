package table

import (
	"time"

	stringpool "github.com/scourdata/scour/pkg/strings"
)

// Kind is the declared type of a column. Connectors normalize cells to
// float64 (numeric), string (text), time.Time (datetime) or nil (missing);
// category columns store a dictionary plus per-row codes instead of values.
type Kind string

const (
	KindUnknown  Kind = "unknown"
	KindNumeric  Kind = "numeric"
	KindText     Kind = "text"
	KindDatetime Kind = "datetime"
	KindCategory Kind = "category"
)

// Column is a named, typed sequence of cells. A nil cell is the missing
// marker: distinct from zero, the empty string and every domain value.
// The missing count is maintained incrementally on every mutation.
type Column struct {
	name    string
	kind    Kind
	values  []interface{}
	missing int

	// dictionary encoding, populated only when kind == KindCategory
	dict  []string
	codes []int32
	index map[string]int32
}

// NewColumn creates an empty column with the given name and kind.
func NewColumn(name string, kind Kind) *Column {
	return &Column{name: name, kind: kind}
}

// NewColumnFromValues creates a column over an existing cell slice.
// The slice is owned by the column afterwards.
func NewColumnFromValues(name string, kind Kind, values []interface{}) *Column {
	c := &Column{name: name, kind: kind, values: values}
	for _, v := range values {
		if v == nil {
			c.missing++
		}
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Rename changes the column name. Only the standardize stage should call
// this; the owning Table does not re-check uniqueness here.
func (c *Column) Rename(name string) { c.name = name }

// Kind returns the declared kind.
func (c *Column) Kind() Kind { return c.kind }

// SetKind commits a reclassification. Used by the classifier at ingestion
// and by the optimize stage; the caller is responsible for making the
// stored cells match the new kind.
func (c *Column) SetKind(kind Kind) { c.kind = kind }

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.kind == KindCategory {
		return len(c.codes)
	}
	return len(c.values)
}

// Missing returns the number of missing cells.
func (c *Column) Missing() int { return c.missing }

// IsMissing reports whether the cell at row i is the missing marker.
func (c *Column) IsMissing(i int) bool {
	if c.kind == KindCategory {
		return c.codes[i] < 0
	}
	return c.values[i] == nil
}

// Value returns the cell at row i. Category columns decode transparently:
// the caller always sees the string, never the code.
func (c *Column) Value(i int) interface{} {
	if c.kind == KindCategory {
		code := c.codes[i]
		if code < 0 {
			return nil
		}
		return c.dict[code]
	}
	return c.values[i]
}

// SetValue replaces the cell at row i, keeping the missing count current.
// Setting nil marks the cell missing. On category columns a new string is
// added to the dictionary on first use.
func (c *Column) SetValue(i int, v interface{}) {
	if c.kind == KindCategory {
		was := c.codes[i] < 0
		if v == nil {
			if !was {
				c.missing++
			}
			c.codes[i] = -1
			return
		}
		if was {
			c.missing--
		}
		c.codes[i] = c.internCategory(stringpool.ValueToString(v))
		return
	}

	if c.values[i] == nil && v != nil {
		c.missing--
	} else if c.values[i] != nil && v == nil {
		c.missing++
	}
	c.values[i] = v
}

// Append adds a cell at the end of the column.
func (c *Column) Append(v interface{}) {
	if c.kind == KindCategory {
		if v == nil {
			c.codes = append(c.codes, -1)
			c.missing++
			return
		}
		c.codes = append(c.codes, c.internCategory(stringpool.ValueToString(v)))
		return
	}
	if v == nil {
		c.missing++
	}
	c.values = append(c.values, v)
}

// Float64s returns the non-missing cells that hold float64 values, in row
// order. The result is a fresh slice safe to sort.
func (c *Column) Float64s() []float64 {
	out := make([]float64, 0, c.Len()-c.missing)
	for i := 0; i < c.Len(); i++ {
		if f, ok := c.Value(i).(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// Times returns the non-missing cells that hold time.Time values, in row order.
func (c *Column) Times() []time.Time {
	out := make([]time.Time, 0, c.Len()-c.missing)
	for i := 0; i < c.Len(); i++ {
		if t, ok := c.Value(i).(time.Time); ok {
			out = append(out, t)
		}
	}
	return out
}

// Cardinality returns the number of distinct non-missing values.
func (c *Column) Cardinality() int {
	if c.kind == KindCategory {
		return len(c.dict)
	}
	seen := make(map[string]struct{}, 64)
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		if v == nil {
			continue
		}
		seen[stringpool.ValueToString(v)] = struct{}{}
	}
	return len(seen)
}

// EncodeCategory converts the column to dictionary encoding. Distinct
// values enter the dictionary in first-appearance order; observable cell
// values are unchanged. No-op if already encoded.
func (c *Column) EncodeCategory() {
	if c.kind == KindCategory {
		return
	}
	c.codes = make([]int32, len(c.values))
	c.index = make(map[string]int32)
	for i, v := range c.values {
		if v == nil {
			c.codes[i] = -1
			continue
		}
		c.codes[i] = c.internCategory(stringpool.ValueToString(v))
	}
	c.values = nil
	c.kind = KindCategory
}

func (c *Column) internCategory(s string) int32 {
	if c.index == nil {
		c.index = make(map[string]int32)
	}
	if code, ok := c.index[s]; ok {
		return code
	}
	code := int32(len(c.dict))
	c.dict = append(c.dict, s)
	c.index[s] = code
	return code
}

// filter compacts the column in place, keeping only rows where keep[i] is
// true. Called by Table.FilterRows so all columns stay aligned.
func (c *Column) filter(keep []bool) {
	if c.kind == KindCategory {
		out := c.codes[:0]
		missing := 0
		for i, k := range keep {
			if !k {
				continue
			}
			if c.codes[i] < 0 {
				missing++
			}
			out = append(out, c.codes[i])
		}
		c.codes = out
		c.missing = missing
		return
	}
	out := c.values[:0]
	missing := 0
	for i, k := range keep {
		if !k {
			continue
		}
		if c.values[i] == nil {
			missing++
		}
		out = append(out, c.values[i])
	}
	c.values = out
	c.missing = missing
}

// estimateBytes approximates the heap footprint of the stored cells,
// used for the optimize stage's before/after logging.
func (c *Column) estimateBytes() int64 {
	if c.kind == KindCategory {
		size := int64(len(c.codes)) * 4
		for _, s := range c.dict {
			size += int64(len(s)) + 16
		}
		return size
	}
	size := int64(len(c.values)) * 16
	for _, v := range c.values {
		switch x := v.(type) {
		case string:
			size += int64(len(x))
		case float64:
			size += 8
		case time.Time:
			size += 24
		}
	}
	return size
}
