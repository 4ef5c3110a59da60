package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	tests := []struct {
		name string
		v    []float64
		q    float64
		want float64
	}{
		{"median odd", []float64{3, 1, 2}, 0.5, 2},
		{"median even interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"q1 of skewed sample", []float64{1, 2, 3, 4, 5, 100}, 0.25, 2.25},
		{"q3 of skewed sample", []float64{1, 2, 3, 4, 5, 100}, 0.75, 4.75},
		{"min", []float64{5, 1, 9}, 0, 1},
		{"max", []float64{5, 1, 9}, 1, 9},
		{"single value", []float64{7}, 0.75, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.v, tt.q), 1e-9)
		})
	}
}

func TestQuantileEmpty(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuantileDoesNotMutateInput(t *testing.T) {
	v := []float64{3, 1, 2}
	Quantile(v, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, v)
}

func TestQuartilesIQRBounds(t *testing.T) {
	// The skewed sample behind the conventional 1.5*IQR fence check.
	q1, q3 := Quartiles([]float64{1, 2, 3, 4, 5, 100})
	iqr := q3 - q1
	assert.InDelta(t, 2.5, iqr, 1e-9)
	assert.InDelta(t, -1.5, q1-1.5*iqr, 1e-9)
	assert.InDelta(t, 8.5, q3+1.5*iqr, 1e-9)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 2.0, Median([]float64{1, 2, 100}), 1e-9)
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-9)
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMode(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   interface{}
	}{
		{"clear winner", []interface{}{"a", "b", "b", "c"}, "b"},
		// "x" and "y" both end at count 2, but "y" reaches 2 first
		// (row 2 versus row 3).
		{"tie breaks to first max in order", []interface{}{"x", "y", "y", "x"}, "y"},
		{"nil cells ignored", []interface{}{nil, "a", nil, "a", "b"}, "a"},
		{"numeric values", []interface{}{1.0, 2.0, 2.0}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mode(tt.values)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeAllMissing(t *testing.T) {
	_, ok := Mode([]interface{}{nil, nil})
	assert.False(t, ok)
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{4, -2, 9})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 9.0, hi)
}
