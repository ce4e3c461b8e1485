// Package sampling provides stream-subsampling strategies. Each strategy
// consumes a stream of items through Add, exposes the accumulated sample, and
// reports the sampling rate whose inverse callers use to scale extensive
// statistics (COUNT, SUM) back to population scale. Intensive statistics
// (AVG, MIN, MAX) must not be scaled.
package sampling

import (
	"fmt"

	"github.com/bobby4fischer/E6Hackathon/pkg/query"
)

// Strategy is the common contract over the four sampling variants. Sample
// never mutates strategy state and may be called repeatedly; Reset returns to
// the initial empty state without forgetting configuration.
type Strategy[T any] interface {
	Add(item T)
	Sample() []T
	Reset()
	Rate() float64
}

// KeyFunc maps an item to its stratum key for stratified sampling.
type KeyFunc[T any] func(item T) string

// New builds the strategy selected by a sampling directive. A NONE directive,
// including the zero-value spec of a query with no SAMPLE clause, yields a nil
// strategy, meaning the caller should process the full input. The key function
// is only consulted for STRATIFIED.
func New[T any](spec query.SamplingSpec, key KeyFunc[T]) (Strategy[T], error) {
	switch spec.Method {
	case query.SampleNone, "":
		return nil, nil
	case query.SampleRandom:
		return NewRandom[T](spec.Rate)
	case query.SampleSystematic:
		return NewSystematic[T](spec.Size)
	case query.SampleReservoir:
		return NewReservoir[T](spec.Size)
	case query.SampleStratified:
		if key == nil {
			return nil, fmt.Errorf("stratified sampling requires a key function")
		}
		return NewStratified(spec.Rate, key)
	default:
		return nil, fmt.Errorf("unknown sampling method %q", spec.Method)
	}
}
