package sketches

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	hllBucketBits = 10
	hllNumBuckets = 1 << hllBucketBits // 1024
)

// HyperLogLog estimates the number of distinct items in a stream using 1024
// byte registers. Each register holds the maximum observed leading-zero count
// among the items hashing into its bucket; the bucket index comes from the
// top 10 bits of a 64-bit hash.
type HyperLogLog struct {
	registers []uint8
	alpha     float64
}

// NewHyperLogLog creates an empty HyperLogLog.
func NewHyperLogLog() *HyperLogLog {
	return &HyperLogLog{
		registers: make([]uint8, hllNumBuckets),
		alpha:     0.7213 / (1.0 + 1.079/float64(hllNumBuckets)),
	}
}

// Add records one item.
func (hll *HyperLogLog) Add(item []byte) {
	hash := xxhash.Sum64(item)
	bucket := hash >> (64 - hllBucketBits)

	// Rank is the leading-zero count of the remaining 54 bits, capped at 54
	// when they are all zero.
	rest := hash << hllBucketBits
	var zeros uint8
	if rest == 0 {
		zeros = 64 - hllBucketBits
	} else {
		zeros = uint8(bits.LeadingZeros64(rest))
	}

	if zeros > hll.registers[bucket] {
		hll.registers[bucket] = zeros
	}
}

// AddString records one string item.
func (hll *HyperLogLog) AddString(item string) {
	hll.Add([]byte(item))
}

// Estimate returns the estimated cardinality. The harmonic-mean raw estimate
// is replaced by linear counting in the small range (raw <= 2.5m, while zero
// registers remain) and by the 32-bit hash-collision correction in the large
// range (raw > 2^32/30).
func (hll *HyperLogLog) Estimate() float64 {
	sum := 0.0
	for _, reg := range hll.registers {
		sum += 1.0 / float64(uint64(1)<<reg)
	}
	estimate := hll.alpha * hllNumBuckets * hllNumBuckets / sum

	if estimate <= 2.5*hllNumBuckets {
		if zeros := hll.countZeroRegisters(); zeros != 0 {
			estimate = hllNumBuckets * math.Log(float64(hllNumBuckets)/float64(zeros))
		}
	} else if estimate > math.Exp2(32)/30.0 {
		estimate = -math.Exp2(32) * math.Log(1.0-estimate/math.Exp2(32))
	}

	return estimate
}

// StandardError returns the theoretical relative standard error, 1.04/sqrt(m).
func (hll *HyperLogLog) StandardError() float64 {
	return 1.04 / math.Sqrt(hllNumBuckets)
}

// ConfidenceInterval returns approximate bounds around the estimate for a
// two-sided confidence level (0.90, 0.95 or 0.99; anything else means 95%).
func (hll *HyperLogLog) ConfidenceInterval(confidence float64) (float64, float64) {
	estimate := hll.Estimate()
	stdErr := hll.StandardError() * estimate

	var z float64
	switch {
	case math.Abs(confidence-0.90) < 1e-9:
		z = 1.645
	case math.Abs(confidence-0.99) < 1e-9:
		z = 2.576
	default:
		z = 1.96
	}

	margin := z * stdErr
	return math.Max(0, estimate-margin), estimate + margin
}

// Merge folds another HyperLogLog into this one by taking per-register
// maxima, as if both streams had been added here.
func (hll *HyperLogLog) Merge(other *HyperLogLog) error {
	if len(hll.registers) != len(other.registers) {
		return fmt.Errorf("cannot merge HyperLogLogs with different register counts")
	}
	for i, reg := range other.registers {
		if reg > hll.registers[i] {
			hll.registers[i] = reg
		}
	}
	return nil
}

// Reset zeros all registers.
func (hll *HyperLogLog) Reset() {
	for i := range hll.registers {
		hll.registers[i] = 0
	}
}

func (hll *HyperLogLog) countZeroRegisters() int {
	count := 0
	for _, reg := range hll.registers {
		if reg == 0 {
			count++
		}
	}
	return count
}
