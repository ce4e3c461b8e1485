package sampling

import "fmt"

// Per-stratum reservoir capacity. Every stratum gets an independent reservoir
// of this size, created lazily the first time its key appears.
const defaultStratumCapacity = 100

// Stratified maintains one reservoir per distinct stratum key so that rare
// strata keep representation the overall sample would lose. The reported rate
// is the configured target rate, not a per-stratum weighted recomputation;
// callers scale all strata uniformly with it.
type Stratified[T any] struct {
	rate   float64
	key    KeyFunc[T]
	strata map[string]*Reservoir[T]
	order  []string
}

// NewStratified creates a stratified sampler with target rate in (0,1] and a
// stratum key extractor.
func NewStratified[T any](rate float64, key KeyFunc[T]) (*Stratified[T], error) {
	if rate <= 0 || rate > 1 {
		return nil, fmt.Errorf("sampling rate must be between 0 and 1, got %v", rate)
	}
	return &Stratified[T]{
		rate:   rate,
		key:    key,
		strata: make(map[string]*Reservoir[T]),
	}, nil
}

func (s *Stratified[T]) Add(item T) {
	k := s.key(item)
	res, ok := s.strata[k]
	if !ok {
		res, _ = NewReservoir[T](defaultStratumCapacity)
		s.strata[k] = res
		s.order = append(s.order, k)
	}
	res.Add(item)
}

// Sample returns the union of all per-stratum samples, strata in first-seen
// order, items in reservoir slot order within each stratum.
func (s *Stratified[T]) Sample() []T {
	var out []T
	for _, k := range s.order {
		out = append(out, s.strata[k].Sample()...)
	}
	return out
}

func (s *Stratified[T]) Reset() {
	s.strata = make(map[string]*Reservoir[T])
	s.order = nil
}

func (s *Stratified[T]) Rate() float64 {
	return s.rate
}
