package sampling

import (
	"fmt"
	"math/rand"
)

// Random keeps each incoming item independently with probability rate. The
// reported rate is the configured inclusion probability, not the realized
// sample/seen ratio.
type Random[T any] struct {
	rate   float64
	sample []T
	rng    *rand.Rand
}

// NewRandom creates a simple random sampler with inclusion probability
// rate in (0,1].
func NewRandom[T any](rate float64) (*Random[T], error) {
	if rate <= 0 || rate > 1 {
		return nil, fmt.Errorf("sampling rate must be between 0 and 1, got %v", rate)
	}
	return &Random[T]{
		rate: rate,
		rng:  rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

func (s *Random[T]) Add(item T) {
	if s.rng.Float64() < s.rate {
		s.sample = append(s.sample, item)
	}
}

// Sample returns the kept items in insertion order.
func (s *Random[T]) Sample() []T {
	out := make([]T, len(s.sample))
	copy(out, s.sample)
	return out
}

func (s *Random[T]) Reset() {
	s.sample = s.sample[:0]
}

func (s *Random[T]) Rate() float64 {
	return s.rate
}
