// Package estimator quantifies the uncertainty of sample-scaled estimates
// with analytic and bootstrap confidence intervals.
package estimator

import (
	"math"
	"math/rand"
	"sort"
)

// CIResult describes a confidence interval around a scaled estimate.
type CIResult struct {
	Estimate        float64 `json:"estimate"`
	StdError        float64 `json:"std_error"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Lower           float64 `json:"ci_low"`
	Upper           float64 `json:"ci_high"`
	SampleFraction  float64 `json:"sample_fraction"`
	RelativeError   float64 `json:"relative_error"`
}

// ZScore returns z for a two-sided confidence level. Levels other than 0.90,
// 0.95 and 0.99 default to 95%.
func ZScore(confidence float64) float64 {
	switch {
	case math.Abs(confidence-0.90) < 1e-9:
		return 1.6448536269514722
	case math.Abs(confidence-0.99) < 1e-9:
		return 2.5758293035489004
	default:
		return 1.959963984540054
	}
}

// CountCI bounds a COUNT scaled from a uniform sample with fraction f:
// count_hat = count_sample / f, with binomial variance N*f*(1-f) using
// count_hat as the proxy for the unknown N.
func CountCI(countSample int64, f, confidence float64) CIResult {
	est := float64(countSample) / f
	se := math.Sqrt(est*f*(1-f)) / f
	return intervalAround(est, se, f, confidence)
}

// SumCI bounds a SUM scaled from a uniform sample with fraction f. The sample
// sum's variance is approximated as var(x) * n, treating values as
// independent.
func SumCI(sumSample, valueVariance float64, nSample int, f, confidence float64) CIResult {
	est := sumSample / f
	se := math.Sqrt(valueVariance*float64(nSample)) / f
	return intervalAround(est, se, f, confidence)
}

// BootstrapCI resamples the contributing values B times to build a percentile
// interval for statistic(values) * scale, where scale is 1/sampleFraction for
// extensive statistics and 1 for intensive ones.
func BootstrapCI(values []float64, statistic func([]float64) float64, scale float64, B int, confidence float64) CIResult {
	if len(values) == 0 || B <= 1 {
		return CIResult{}
	}

	rng := rand.New(rand.NewSource(rand.Int63()))
	n := len(values)
	original := statistic(values) * scale

	ests := make([]float64, B)
	resample := make([]float64, n)
	for i := 0; i < B; i++ {
		for j := 0; j < n; j++ {
			resample[j] = values[rng.Intn(n)]
		}
		ests[i] = statistic(resample) * scale
	}
	sort.Float64s(ests)

	alpha := 1.0 - confidence
	lo := int(math.Floor(float64(B) * alpha / 2.0))
	hi := int(math.Ceil(float64(B)*(1.0-alpha/2.0))) - 1
	if lo < 0 {
		lo = 0
	}
	if hi >= B {
		hi = B - 1
	}

	mean := 0.0
	for _, e := range ests {
		mean += e
	}
	mean /= float64(B)
	variance := 0.0
	for _, e := range ests {
		variance += (e - mean) * (e - mean)
	}
	variance /= float64(B - 1)
	se := math.Sqrt(variance)

	rel := 0.0
	if original != 0 {
		rel = se / math.Abs(original)
	}

	return CIResult{
		Estimate:        original,
		StdError:        se,
		ConfidenceLevel: confidence,
		Lower:           ests[lo],
		Upper:           ests[hi],
		SampleFraction:  1.0 / scale,
		RelativeError:   rel,
	}
}

func intervalAround(est, se, f, confidence float64) CIResult {
	z := ZScore(confidence)
	rel := 0.0
	if est != 0 {
		rel = se / math.Abs(est)
	}
	return CIResult{
		Estimate:        est,
		StdError:        se,
		ConfidenceLevel: confidence,
		Lower:           est - z*se,
		Upper:           est + z*se,
		SampleFraction:  f,
		RelativeError:   rel,
	}
}
