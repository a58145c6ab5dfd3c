package analytics

import (
	"math"
	"sort"

	"sopulse/internal/dataset"
)

// QuantileBounds computes the lower and upper quantiles of the
// non-missing values of the metric across the whole record set. The
// second return value is false when no value is available. Quantiles
// use linear interpolation between the two nearest order statistics.
func QuantileBounds(records []dataset.SurveyRecord, metric NumericField, lowerPct, upperPct float64) (ClipBounds, bool) {
	var values []float64
	for _, rec := range records {
		v := metric(rec)
		if v.Valid {
			values = append(values, v.Value)
		}
	}

	if len(values) == 0 {
		return ClipBounds{}, false
	}

	sort.Float64s(values)
	return ClipBounds{
		Lower: quantile(values, lowerPct),
		Upper: quantile(values, upperPct),
	}, true
}

// quantile returns the q-th quantile of sorted values via linear
// interpolation: position q*(n-1) between the bracketing order
// statistics.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}

	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Clip bounds the metric to the dataset-wide quantile range, producing
// one ClippedValue per input record. The bounds are computed once over
// the whole record set, never per group; reuse them via ClipToBounds
// when clipping subsets so every group sees the same range.
func Clip(records []dataset.SurveyRecord, metric NumericField, lowerPct, upperPct float64) []ClippedValue {
	bounds, ok := QuantileBounds(records, metric, lowerPct, upperPct)
	if !ok {
		out := make([]ClippedValue, 0, len(records))
		for _, rec := range records {
			out = append(out, ClippedValue{Record: rec, Clipped: metric(rec)})
		}
		return out
	}
	return ClipToBounds(records, metric, bounds)
}

// ClipToBounds bounds the metric to a fixed range: values below the
// lower bound are raised to it, values above the upper bound lowered
// to it, values in range and missing values pass through. Row count is
// always preserved and reapplying the same bounds is a no-op.
func ClipToBounds(records []dataset.SurveyRecord, metric NumericField, bounds ClipBounds) []ClippedValue {
	out := make([]ClippedValue, 0, len(records))
	for _, rec := range records {
		v := metric(rec)
		if !v.Valid {
			out = append(out, ClippedValue{Record: rec, Clipped: v})
			continue
		}

		clipped := math.Min(math.Max(v.Value, bounds.Lower), bounds.Upper)
		out = append(out, ClippedValue{Record: rec, Clipped: dataset.Float(clipped)})
	}

	return out
}
