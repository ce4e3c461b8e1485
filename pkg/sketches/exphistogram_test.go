package sketches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpHistogramCountsWithinWindow(t *testing.T) {
	eh := NewExponentialHistogram(1000, 0.01)

	for ts := uint64(1); ts <= 50; ts++ {
		eh.Add(ts, 1)
	}

	assert.Equal(t, uint64(50), eh.Estimate(50))
}

func TestExpHistogramEvictsExpiredBuckets(t *testing.T) {
	eh := NewExponentialHistogram(100, 0.01)

	eh.Add(1, 5)
	require.Equal(t, uint64(5), eh.Estimate(1))

	// The add at ts=300 puts the cutoff at 200 and evicts the first bucket.
	eh.Add(300, 2)
	assert.Equal(t, uint64(2), eh.Estimate(300))
	assert.Equal(t, 1, eh.NumBuckets())
}

func TestExpHistogramEstimateRespectsNow(t *testing.T) {
	eh := NewExponentialHistogram(10, 0.01)

	eh.Add(1, 3)
	eh.Add(5, 4)

	assert.Equal(t, uint64(7), eh.Estimate(5))
	// At now=20 the cutoff is 10 and both buckets fall outside.
	assert.Equal(t, uint64(0), eh.Estimate(20))
}

func TestExpHistogramBucketCountBounded(t *testing.T) {
	eh := NewExponentialHistogram(16, 0.5)

	// k = 2, cap = 2 * (1 + log2(16)) = 10 buckets.
	for ts := uint64(1); ts <= 200; ts++ {
		eh.Add(ts, 1)
	}

	assert.LessOrEqual(t, eh.NumBuckets(), 10)
	est := eh.Estimate(200)
	assert.Greater(t, est, uint64(0))
}

func TestExpHistogramDefaults(t *testing.T) {
	eh := NewExponentialHistogram(0, -1)
	eh.Add(1, 1)
	assert.Equal(t, uint64(1), eh.Estimate(1))
}

func TestExpHistogramReset(t *testing.T) {
	eh := NewExponentialHistogram(100, 0.1)
	eh.Add(1, 10)
	require.NotZero(t, eh.NumBuckets())

	eh.Reset()
	assert.Zero(t, eh.NumBuckets())
	assert.Equal(t, uint64(0), eh.Estimate(1))
}
