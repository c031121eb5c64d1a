package cltv

import (
	"math"
	"sort"

	apperrors "cltvcli/internal/errors"
)

// FenceBounds computes Tukey fences for a column: with q1 and q3 the
// linear-interpolated values at pLow and pHigh, the bounds are
// q1 - multiplier*(q3-q1) and q3 + multiplier*(q3-q1).
//
// Small samples give unstable percentile estimates; the fences still
// apply without a minimum-sample guard. An empty column is an error.
func FenceBounds(values []float64, pLow, pHigh, multiplier float64) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, apperrors.NewOutlierComputationError("", "percentile of empty column is undefined")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentileValue(sorted, pLow)
	q3 := percentileValue(sorted, pHigh)
	iqr := q3 - q1

	return q1 - multiplier*iqr, q3 + multiplier*iqr, nil
}

// ClampColumn returns a new slice with every value clamped to [low, high].
// Row count is preserved; clamping is idempotent.
func ClampColumn(values []float64, low, high float64) []float64 {
	clamped := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v < low:
			clamped[i] = low
		case v > high:
			clamped[i] = high
		default:
			clamped[i] = v
		}
	}
	return clamped
}

// percentileValue calculates the value at a given percentile of a sorted
// column using linear interpolation between the neighbouring ranks.
func percentileValue(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
