package timeline

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Sign classifies the direction of the latest change
type Sign string

const (
	Positive Sign = "positive"
	Negative Sign = "negative"
)

// ZeroPercent is reported whenever there is no prior value to compare against
const ZeroPercent = "0.00"

// Delta holds the headline values derived from the visible series
type Delta struct {
	Last          float64 `json:"last"`
	Prior         float64 `json:"prior"`
	AbsoluteDelta float64 `json:"absolute_delta"`
	PercentChange string  `json:"percent_change"`
	Sign          Sign    `json:"sign"`
}

// ComputeDelta compares the last point of the series with the one before it.
// Missing points count as zero, so empty and single point series are valid.
func ComputeDelta(filtered Series) Delta {
	var last, prior float64
	if n := len(filtered); n > 0 {
		last = filtered[n-1].Value
		if n > 1 {
			prior = filtered[n-2].Value
		}
	}

	delta := Delta{
		Last:          last,
		Prior:         prior,
		AbsoluteDelta: last - prior,
		PercentChange: ZeroPercent,
		Sign:          Positive,
	}
	if prior != 0 {
		delta.PercentChange = percentChange(last, prior)
	}
	if delta.AbsoluteDelta < 0 {
		delta.Sign = Negative
	}
	return delta
}

// percentChange formats (last-prior)/prior*100 with two decimals
func percentChange(last, prior float64) string {
	if !finite(last) || !finite(prior) {
		return strconv.FormatFloat((last-prior)/prior*100, 'f', 2, 64)
	}

	pct := decimal.NewFromFloat(last).
		Sub(decimal.NewFromFloat(prior)).
		Div(decimal.NewFromFloat(prior)).
		Mul(decimal.NewFromInt(100))
	return pct.StringFixed(2)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
