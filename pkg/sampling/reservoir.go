package sampling

import (
	"fmt"
	"math/rand"
)

// Reservoir holds a uniform random sample of at most capacity items from a
// stream of unknown length. After n >= capacity items, each item seen so far
// is in the buffer with probability capacity/n: the i-th item (i > capacity)
// replaces a uniformly chosen slot with probability capacity/i.
type Reservoir[T any] struct {
	capacity int
	seen     int
	buf      []T
	rng      *rand.Rand
}

// NewReservoir creates a reservoir sampler. Capacity 0 is accepted and yields
// an always-empty sample with rate 0.
func NewReservoir[T any](capacity int) (*Reservoir[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("reservoir capacity cannot be negative, got %d", capacity)
	}
	return &Reservoir[T]{
		capacity: capacity,
		buf:      make([]T, 0, capacity),
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

func (s *Reservoir[T]) Add(item T) {
	s.seen++
	if len(s.buf) < s.capacity {
		s.buf = append(s.buf, item)
		return
	}
	if s.capacity == 0 {
		return
	}
	if j := s.rng.Intn(s.seen); j < s.capacity {
		s.buf[j] = item
	}
}

// Sample returns the current reservoir contents in slot order.
func (s *Reservoir[T]) Sample() []T {
	out := make([]T, len(s.buf))
	copy(out, s.buf)
	return out
}

func (s *Reservoir[T]) Reset() {
	s.buf = s.buf[:0]
	s.seen = 0
}

// Rate is the empirical sampling fraction: buffer size over total items seen,
// or 0 before any item arrives.
func (s *Reservoir[T]) Rate() float64 {
	if s.seen == 0 {
		return 0
	}
	return float64(len(s.buf)) / float64(s.seen)
}
