package sampling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobby4fischer/E6Hackathon/pkg/query"
)

func TestReservoirHoldsCapacityItems(t *testing.T) {
	s, err := NewReservoir[int](100)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		s.Add(i)
	}

	assert.Len(t, s.Sample(), 100)
	assert.InDelta(t, 0.1, s.Rate(), 1e-12)
}

func TestReservoirBelowCapacity(t *testing.T) {
	s, err := NewReservoir[int](100)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		s.Add(i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, s.Sample())
	assert.Equal(t, 1.0, s.Rate())
}

func TestReservoirZeroCapacity(t *testing.T) {
	s, err := NewReservoir[int](0)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		s.Add(i)
	}

	assert.Empty(t, s.Sample())
	assert.Equal(t, 0.0, s.Rate())
}

func TestReservoirRateBeforeAnyItem(t *testing.T) {
	s, err := NewReservoir[string](5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Rate())
}

func TestSystematicKeepsEveryKth(t *testing.T) {
	s, err := NewSystematic[int](10)
	require.NoError(t, err)

	for i := 1; i <= 95; i++ {
		s.Add(i)
	}

	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90}, s.Sample())
	assert.InDelta(t, 0.1, s.Rate(), 1e-12)
}

func TestSystematicStrideOneKeepsAll(t *testing.T) {
	s, err := NewSystematic[int](1)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		s.Add(i)
	}

	assert.Len(t, s.Sample(), 7)
	assert.Equal(t, 1.0, s.Rate())
}

func TestRandomSampleIsApproximate(t *testing.T) {
	s, err := NewRandom[int](0.1)
	require.NoError(t, err)

	n := 10000
	for i := 0; i < n; i++ {
		s.Add(i)
	}

	size := len(s.Sample())
	assert.Greater(t, size, n/20, "sample should hold roughly 10%% of the stream")
	assert.Less(t, size, n*15/100)
	assert.Equal(t, 0.1, s.Rate())
}

func TestStratifiedSampleBoundedPerStratum(t *testing.T) {
	s, err := NewStratified(0.2, func(i int) string {
		return fmt.Sprintf("key-%d", i%5)
	})
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		s.Add(i)
	}

	sample := s.Sample()
	assert.LessOrEqual(t, len(sample), 5*defaultStratumCapacity)

	perStratum := make(map[string]int)
	for _, item := range sample {
		perStratum[fmt.Sprintf("key-%d", item%5)]++
	}
	assert.Len(t, perStratum, 5)
	for key, n := range perStratum {
		assert.LessOrEqual(t, n, defaultStratumCapacity, "stratum %s over capacity", key)
	}

	assert.Equal(t, 0.2, s.Rate())
}

func TestStratifiedKeepsRareStrata(t *testing.T) {
	s, err := NewStratified(0.5, func(i int) string {
		if i == 0 {
			return "rare"
		}
		return "common"
	})
	require.NoError(t, err)

	s.Add(0)
	for i := 1; i <= 10000; i++ {
		s.Add(i)
	}

	var sawRare bool
	for _, item := range s.Sample() {
		if item == 0 {
			sawRare = true
		}
	}
	assert.True(t, sawRare, "singleton stratum must survive sampling")
}

func TestSampleDoesNotMutateState(t *testing.T) {
	s, err := NewSystematic[int](2)
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		s.Add(i)
	}

	first := s.Sample()
	first[0] = -1
	assert.Equal(t, []int{2, 4, 6, 8, 10}, s.Sample())
}

func TestResetKeepsConfiguration(t *testing.T) {
	sys, err := NewSystematic[int](3)
	require.NoError(t, err)
	for i := 1; i <= 9; i++ {
		sys.Add(i)
	}
	sys.Reset()
	assert.Empty(t, sys.Sample())
	assert.InDelta(t, 1.0/3.0, sys.Rate(), 1e-12)
	sys.Add(1)
	sys.Add(2)
	sys.Add(3)
	assert.Equal(t, []int{3}, sys.Sample())

	res, err := NewReservoir[int](4)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		res.Add(i)
	}
	res.Reset()
	assert.Equal(t, 0.0, res.Rate())
	for i := 0; i < 20; i++ {
		res.Add(i)
	}
	assert.Len(t, res.Sample(), 4)
}

func TestConstructionRejectsInvalidConfig(t *testing.T) {
	_, err := NewRandom[int](0)
	assert.Error(t, err)
	_, err = NewRandom[int](1.5)
	assert.Error(t, err)
	_, err = NewRandom[int](-0.1)
	assert.Error(t, err)

	_, err = NewSystematic[int](0)
	assert.Error(t, err)

	_, err = NewReservoir[int](-1)
	assert.Error(t, err)

	_, err = NewStratified[int](0, func(int) string { return "" })
	assert.Error(t, err)
	_, err = NewStratified[int](1.2, func(int) string { return "" })
	assert.Error(t, err)
}

func TestFactorySelectsVariant(t *testing.T) {
	key := func(i int) string { return fmt.Sprint(i) }

	s, err := New[int](query.SamplingSpec{Method: query.SampleNone}, key)
	require.NoError(t, err)
	assert.Nil(t, s)

	// A query without a SAMPLE clause carries the zero-value spec; it must
	// select exact execution, not error.
	s, err = New[int](query.SamplingSpec{}, key)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New[int](query.SamplingSpec{Method: query.SampleRandom, Rate: 0.5}, key)
	require.NoError(t, err)
	assert.IsType(t, &Random[int]{}, s)

	s, err = New[int](query.SamplingSpec{Method: query.SampleSystematic, Size: 5}, key)
	require.NoError(t, err)
	assert.IsType(t, &Systematic[int]{}, s)

	s, err = New[int](query.SamplingSpec{Method: query.SampleReservoir, Size: 10}, key)
	require.NoError(t, err)
	assert.IsType(t, &Reservoir[int]{}, s)

	s, err = New[int](query.SamplingSpec{Method: query.SampleStratified, Rate: 0.2}, key)
	require.NoError(t, err)
	assert.IsType(t, &Stratified[int]{}, s)

	_, err = New[int](query.SamplingSpec{Method: query.SampleStratified, Rate: 0.2}, nil)
	assert.Error(t, err)

	_, err = New[int](query.SamplingSpec{Method: "bogus"}, key)
	assert.Error(t, err)
}
