package sampling

import "fmt"

// Systematic keeps every step-th item by stream position, so the achieved
// rate is exactly 1/step.
type Systematic[T any] struct {
	step   int
	seen   int
	sample []T
}

// NewSystematic creates a systematic sampler with the given stride. The
// stride must be at least 1; stride 1 keeps every item.
func NewSystematic[T any](step int) (*Systematic[T], error) {
	if step < 1 {
		return nil, fmt.Errorf("step size must be at least 1, got %d", step)
	}
	return &Systematic[T]{step: step}, nil
}

func (s *Systematic[T]) Add(item T) {
	s.seen++
	if s.seen%s.step == 0 {
		s.sample = append(s.sample, item)
	}
}

// Sample returns the kept items in insertion order.
func (s *Systematic[T]) Sample() []T {
	out := make([]T, len(s.sample))
	copy(out, s.sample)
	return out
}

func (s *Systematic[T]) Reset() {
	s.sample = s.sample[:0]
	s.seen = 0
}

func (s *Systematic[T]) Rate() float64 {
	return 1.0 / float64(s.step)
}
