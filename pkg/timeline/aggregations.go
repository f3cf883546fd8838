package timeline

import (
	"math"
	"sort"
)

// AggregationType names one figure of the statistics panel
type AggregationType string

const (
	Avg    AggregationType = "avg"
	Min    AggregationType = "min"
	Max    AggregationType = "max"
	Count  AggregationType = "count"
	StdDev AggregationType = "stddev"
	Median AggregationType = "median"
	First  AggregationType = "first"
	Last   AggregationType = "last"
)

// Stats summarises the visible window of a series
type Stats struct {
	Count       int     `json:"count"`
	First       float64 `json:"first"`
	Last        float64 `json:"last"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Avg         float64 `json:"avg"`
	Median      float64 `json:"median"`
	StdDev      float64 `json:"stddev"`
	MaxDrawdown float64 `json:"max_drawdown_pct"`
}

// Aggregate reduces the series values with a single aggregation. Empty
// series aggregate to zero.
func Aggregate(series Series, aggType AggregationType) float64 {
	values := series.Values()
	if len(values) == 0 {
		return 0
	}

	switch aggType {
	case Avg:
		return avgValues(values)
	case Min:
		return minValues(values)
	case Max:
		return maxValues(values)
	case Count:
		return float64(len(values))
	case StdDev:
		return stdDevValues(values)
	case Median:
		return percentileValues(values, 50.0)
	case First:
		return values[0]
	case Last:
		return values[len(values)-1]
	}
	return 0
}

// Summarize computes the statistics panel figures for a series
func Summarize(series Series) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	return Stats{
		Count:       len(series),
		First:       Aggregate(series, First),
		Last:        Aggregate(series, Last),
		Min:         Aggregate(series, Min),
		Max:         Aggregate(series, Max),
		Avg:         Aggregate(series, Avg),
		Median:      Aggregate(series, Median),
		StdDev:      Aggregate(series, StdDev),
		MaxDrawdown: maxDrawdown(series.Values()),
	}
}

// maxDrawdown returns the deepest percentage fall from a running peak.
// Non-positive peaks are skipped since the percentage is undefined there.
func maxDrawdown(values []float64) float64 {
	worst := 0.0
	peak := values[0]
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (v - peak) / peak * 100; dd < worst {
			worst = dd
		}
	}
	return worst
}

// Helper functions for calculations

func sumValues(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

func avgValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumValues(values) / float64(len(values))
}

func minValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
	}
	return min
}

func maxValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

func varianceValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	avg := avgValues(values)
	sumSquaredDiff := 0.0

	for _, v := range values {
		diff := v - avg
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values))
}

func stdDevValues(values []float64) float64 {
	return math.Sqrt(varianceValues(values))
}

func percentileValues(values []float64, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Sort a copy; the series order must stay chronological
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 100 {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation for percentile
	index := (percentile / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
