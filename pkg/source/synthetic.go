package source

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// Synthetic defaults
const (
	DefaultSyntheticPoints     = 730
	DefaultSyntheticStart      = 100.0
	DefaultSyntheticVolatility = 0.02
	syntheticDateLayout        = "2006-01-02"
)

// SyntheticLoader generates a daily random walk. A zero seed draws a fresh
// walk on every load.
type SyntheticLoader struct {
	points     int
	start      float64
	volatility float64
	seed       int64
	startDate  time.Time
	now        func() time.Time
}

// NewSyntheticLoader validates spec and fills defaults
func NewSyntheticLoader(spec Spec) (*SyntheticLoader, error) {
	l := &SyntheticLoader{
		points:     spec.Points,
		start:      spec.Start,
		volatility: spec.Volatility,
		seed:       spec.Seed,
		now:        time.Now,
	}

	if l.points < 0 {
		return nil, fmt.Errorf("synthetic points must not be negative")
	}
	if l.points == 0 {
		l.points = DefaultSyntheticPoints
	}
	if l.start == 0 {
		l.start = DefaultSyntheticStart
	}
	if l.start < 0 {
		return nil, fmt.Errorf("synthetic start must not be negative")
	}
	if l.volatility == 0 {
		l.volatility = DefaultSyntheticVolatility
	}
	if l.volatility < 0 || l.volatility >= 1 {
		return nil, fmt.Errorf("synthetic volatility must be in [0, 1)")
	}
	if spec.StartDate != "" {
		d, err := time.Parse(syntheticDateLayout, spec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid synthetic start date: %w", err)
		}
		l.startDate = d
	}

	return l, nil
}

// Load generates the walk, oldest point first
func (l *SyntheticLoader) Load(ctx context.Context) (timeline.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := uint64(l.seed)
	if l.seed == 0 {
		seed = uint64(l.now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	first := l.startDate
	if first.IsZero() {
		today := l.now().UTC().Truncate(24 * time.Hour)
		first = today.AddDate(0, 0, -(l.points - 1))
	}

	series := make(timeline.Series, l.points)
	value := l.start
	for i := range series {
		if i > 0 {
			value *= 1 + l.volatility*(rng.Float64()*2-1)
		}
		series[i] = timeline.Point{
			Label: first.AddDate(0, 0, i).Format(syntheticDateLayout),
			Value: math.Round(value*100) / 100,
		}
	}
	return series, nil
}
