// Package sketches provides probabilistic data structures for approximate
// query processing: cardinality (HyperLogLog), frequency (Count-Min Sketch),
// membership (Bloom filter) and sliding-window counting (exponential
// histogram). Each is a self-contained streaming estimator trading a fixed
// memory budget for a bounded estimation error.
package sketches

// SketchType identifies a sketch kind.
type SketchType string

const (
	HyperLogLogType          SketchType = "hyperloglog"
	CountMinSketchType       SketchType = "countmin"
	BloomFilterType          SketchType = "bloom"
	ExponentialHistogramType SketchType = "exphistogram"
)

// Sketch is the contract shared by all sketch kinds: identify the kind and
// reset to the empty state without losing configuration.
type Sketch interface {
	Type() SketchType
	Reset()
}

var (
	_ Sketch = (*HyperLogLog)(nil)
	_ Sketch = (*CountMinSketch)(nil)
	_ Sketch = (*BloomFilter)(nil)
	_ Sketch = (*ExponentialHistogram)(nil)
)

func (hll *HyperLogLog) Type() SketchType { return HyperLogLogType }

func (cms *CountMinSketch) Type() SketchType { return CountMinSketchType }

func (bf *BloomFilter) Type() SketchType { return BloomFilterType }

func (eh *ExponentialHistogram) Type() SketchType { return ExponentialHistogramType }
