// Package stats provides the statistical primitives the cleaning stages
// depend on: linear-interpolation quantiles for IQR bounds, median for
// numeric imputation and a deterministic mode for categorical imputation.
package stats

import (
	"math"
	"sort"

	mfstats "github.com/montanaflynn/stats"

	stringpool "github.com/scourdata/scour/pkg/strings"
)

// Quantile returns the q-th quantile (0 <= q <= 1) of v using linear
// interpolation between order statistics: pos = (n-1)*q on the sorted
// copy, interpolating between the bracketing values. Returns NaN for an
// empty slice.
func Quantile(v []float64, q float64) float64 {
	n := len(v)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return v[0]
	}
	sorted := make([]float64, n)
	copy(sorted, v)
	sort.Float64s(sorted)

	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Quartiles returns Q1 and Q3 of v under the same interpolation as Quantile.
func Quartiles(v []float64) (q1, q3 float64) {
	return Quantile(v, 0.25), Quantile(v, 0.75)
}

// Median returns the median of v, averaging the two middle values for
// even counts. Returns NaN for an empty slice.
func Median(v []float64) float64 {
	m, err := mfstats.Median(v)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Mean returns the arithmetic mean of v, or NaN for an empty slice.
func Mean(v []float64) float64 {
	m, err := mfstats.Mean(v)
	if err != nil {
		return math.NaN()
	}
	return m
}

// StdDev returns the population standard deviation of v, or NaN for an
// empty slice.
func StdDev(v []float64) float64 {
	s, err := mfstats.StandardDeviation(v)
	if err != nil {
		return math.NaN()
	}
	return s
}

// MinMax returns the smallest and largest values of v, or NaNs for an
// empty slice.
func MinMax(v []float64) (min, max float64) {
	if len(v) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, err := mfstats.Min(v)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	hi, err := mfstats.Max(v)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

// Mode returns the most frequent non-nil value of values. Ties break
// deterministically: scanning in the given order, the first value to
// reach the maximum frequency wins. The second return is false when no
// non-nil value exists.
func Mode(values []interface{}) (interface{}, bool) {
	counts := make(map[string]int, 64)
	var best interface{}
	bestCount := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		key := stringpool.ValueToString(v)
		counts[key]++
		if counts[key] > bestCount {
			bestCount = counts[key]
			best = v
		}
	}
	return best, bestCount > 0
}
