package sketches

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/twmb/murmur3"
)

const (
	defaultCMSWidth = 2048
	defaultCMSDepth = 5
)

// CountMinSketch estimates item frequencies with a depth x width matrix of
// signed counters, one independently seeded hash row per depth. The estimate
// is the minimum across rows: it never undercounts, but hash collisions can
// make it overcount.
type CountMinSketch struct {
	table   [][]int64
	seeds   []uint64
	width   int
	depth   int
	epsilon float64
	delta   float64
	total   int64
}

// NewCountMinSketch creates a sketch with explicit dimensions. Non-positive
// values fall back to the defaults (width 2048, depth 5).
func NewCountMinSketch(width, depth int) *CountMinSketch {
	if width <= 0 {
		width = defaultCMSWidth
	}
	if depth <= 0 {
		depth = defaultCMSDepth
	}

	table := make([][]int64, depth)
	seeds := make([]uint64, depth)
	for i := range table {
		table[i] = make([]int64, width)
		seeds[i] = rand.Uint64()
	}

	return &CountMinSketch{
		table: table,
		seeds: seeds,
		width: width,
		depth: depth,
	}
}

// NewCountMinSketchFromError sizes the sketch for a relative error bound
// epsilon with failure probability delta: width = ceil(e/epsilon), depth =
// ceil(ln(1/delta)).
func NewCountMinSketchFromError(epsilon, delta float64) *CountMinSketch {
	if epsilon <= 0 || epsilon >= 1 {
		epsilon = 0.01
	}
	if delta <= 0 || delta >= 1 {
		delta = 0.01
	}
	cms := NewCountMinSketch(
		int(math.Ceil(math.E/epsilon)),
		int(math.Ceil(math.Log(1/delta))),
	)
	cms.epsilon = epsilon
	cms.delta = delta
	return cms
}

// Add increments the counters for an item by count.
func (cms *CountMinSketch) Add(item []byte, count int64) {
	for i := 0; i < cms.depth; i++ {
		cms.table[i][cms.index(i, item)] += count
	}
	cms.total += count
}

// AddString increments the counters for a string item by count.
func (cms *CountMinSketch) AddString(item string, count int64) {
	cms.Add([]byte(item), count)
}

// Estimate returns the estimated frequency of an item: the minimum counter
// across all hash rows.
func (cms *CountMinSketch) Estimate(item []byte) int64 {
	min := int64(math.MaxInt64)
	for i := 0; i < cms.depth; i++ {
		if c := cms.table[i][cms.index(i, item)]; c < min {
			min = c
		}
	}
	return min
}

// EstimateString returns the estimated frequency of a string item.
func (cms *CountMinSketch) EstimateString(item string) int64 {
	return cms.Estimate([]byte(item))
}

// TotalCount returns the sum of all added counts.
func (cms *CountMinSketch) TotalCount() int64 {
	return cms.total
}

// ErrorBound returns the additive error bound epsilon * total for sketches
// built with NewCountMinSketchFromError, 0 otherwise.
func (cms *CountMinSketch) ErrorBound() int64 {
	return int64(cms.epsilon * float64(cms.total))
}

// Confidence returns 1 - delta for error-sized sketches, 0 otherwise.
func (cms *CountMinSketch) Confidence() float64 {
	if cms.delta == 0 {
		return 0
	}
	return 1.0 - cms.delta
}

// Merge adds another sketch's counters into this one. Both sketches must
// share dimensions and hash seeds.
func (cms *CountMinSketch) Merge(other *CountMinSketch) error {
	if cms.width != other.width || cms.depth != other.depth {
		return fmt.Errorf("cannot merge count-min sketches with different dimensions")
	}
	for i, seed := range cms.seeds {
		if seed != other.seeds[i] {
			return fmt.Errorf("cannot merge count-min sketches with different hash seeds")
		}
	}
	for i := range cms.table {
		for j := range cms.table[i] {
			cms.table[i][j] += other.table[i][j]
		}
	}
	cms.total += other.total
	return nil
}

// Reset zeros the counter matrix but keeps dimensions and seeds.
func (cms *CountMinSketch) Reset() {
	for i := range cms.table {
		for j := range cms.table[i] {
			cms.table[i][j] = 0
		}
	}
	cms.total = 0
}

func (cms *CountMinSketch) index(row int, item []byte) int {
	return int(murmur3.SeedSum64(cms.seeds[row], item) % uint64(cms.width))
}
