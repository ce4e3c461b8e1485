package sketches

import "math"

const (
	defaultWindowSize = 1000
	defaultEpsilon    = 0.01
)

type ehBucket struct {
	count     uint64
	timestamp uint64
}

// ExponentialHistogram approximates the count of events inside a sliding time
// window. Buckets outside the window are evicted on every add, and adjacent
// buckets are merged to cap the bucket count at ceil(1/epsilon) *
// (1 + floor(log2(window))), keeping memory at O(log(window)/epsilon) while
// the windowed sum stays within a factor of epsilon.
type ExponentialHistogram struct {
	buckets []ehBucket
	window  uint64
	epsilon float64
}

// NewExponentialHistogram creates a histogram over the given window size with
// relative error epsilon. A zero window or an epsilon outside (0,1) falls
// back to the defaults (window 1000, epsilon 0.01).
func NewExponentialHistogram(window uint64, epsilon float64) *ExponentialHistogram {
	if window == 0 {
		window = defaultWindowSize
	}
	if epsilon <= 0 || epsilon >= 1 {
		epsilon = defaultEpsilon
	}
	return &ExponentialHistogram{window: window, epsilon: epsilon}
}

// Add records count events at the given timestamp. Timestamps are expected to
// be non-decreasing across calls.
func (eh *ExponentialHistogram) Add(timestamp, count uint64) {
	var cutoff uint64
	if timestamp > eh.window {
		cutoff = timestamp - eh.window
	}

	kept := eh.buckets[:0]
	for _, b := range eh.buckets {
		if b.timestamp >= cutoff {
			kept = append(kept, b)
		}
	}
	eh.buckets = append(kept, ehBucket{count: count, timestamp: timestamp})

	eh.mergeBuckets()
}

// Estimate returns the total count of buckets still inside the window ending
// at now.
func (eh *ExponentialHistogram) Estimate(now uint64) uint64 {
	var cutoff uint64
	if now > eh.window {
		cutoff = now - eh.window
	}
	var sum uint64
	for _, b := range eh.buckets {
		if b.timestamp >= cutoff {
			sum += b.count
		}
	}
	return sum
}

// NumBuckets returns the current bucket count.
func (eh *ExponentialHistogram) NumBuckets() int {
	return len(eh.buckets)
}

// Reset drops all buckets but keeps the window and epsilon configuration.
func (eh *ExponentialHistogram) Reset() {
	eh.buckets = nil
}

// mergeBuckets caps the bucket count: merge the first adjacent equal-count
// pair (doubling the count), or the two oldest buckets when no such pair
// exists.
func (eh *ExponentialHistogram) mergeBuckets() {
	k := int(math.Ceil(1.0 / eh.epsilon))
	maxBuckets := k * (1 + int(math.Floor(math.Log2(float64(eh.window)))))

	for len(eh.buckets) > maxBuckets {
		merged := false
		for i := 0; i+1 < len(eh.buckets); i++ {
			if eh.buckets[i].count == eh.buckets[i+1].count {
				eh.buckets[i].count *= 2
				eh.buckets = append(eh.buckets[:i+1], eh.buckets[i+2:]...)
				merged = true
				break
			}
		}
		if !merged {
			if len(eh.buckets) < 2 {
				break
			}
			eh.buckets[0].count += eh.buckets[1].count
			eh.buckets = append(eh.buckets[:1], eh.buckets[2:]...)
		}
	}
}
