// Package aggregate implements the per-group accumulators behind COUNT, SUM,
// AVG, MIN and MAX.
package aggregate

import "github.com/bobby4fischer/E6Hackathon/pkg/query"

// Aggregator accumulates one statistic over a stream of numeric values.
type Aggregator interface {
	AddValue(value float64)
	Result() float64
}

// ForKind returns a fresh aggregator for an aggregation kind, or nil for
// AggNone and unknown kinds.
func ForKind(kind query.AggregationType) Aggregator {
	switch kind {
	case query.AggCount:
		return &Count{}
	case query.AggSum:
		return &Sum{}
	case query.AggAvg:
		return &Avg{}
	case query.AggMin:
		return &Min{}
	case query.AggMax:
		return &Max{}
	default:
		return nil
	}
}

// Count counts calls; the value argument is ignored.
type Count struct {
	n int64
}

func (a *Count) AddValue(float64) { a.n++ }

func (a *Count) Result() float64 { return float64(a.n) }

// Sum accumulates the running total.
type Sum struct {
	sum float64
}

func (a *Sum) AddValue(v float64) { a.sum += v }

func (a *Sum) Result() float64 { return a.sum }

// Avg tracks running sum and count; Result is 0 when no value was seen.
type Avg struct {
	sum float64
	n   int64
}

func (a *Avg) AddValue(v float64) {
	a.sum += v
	a.n++
}

func (a *Avg) Result() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// Min tracks the running minimum. A seen flag avoids seeding with a sentinel
// that could leak into a real result; Result is 0 when no value was seen.
type Min struct {
	min  float64
	seen bool
}

func (a *Min) AddValue(v float64) {
	if !a.seen || v < a.min {
		a.min = v
	}
	a.seen = true
}

func (a *Min) Result() float64 {
	if !a.seen {
		return 0
	}
	return a.min
}

// Max tracks the running maximum; Result is 0 when no value was seen.
type Max struct {
	max  float64
	seen bool
}

func (a *Max) AddValue(v float64) {
	if !a.seen || v > a.max {
		a.max = v
	}
	a.seen = true
}

func (a *Max) Result() float64 {
	if !a.seen {
		return 0
	}
	return a.max
}
