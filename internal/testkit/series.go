package testkit

import (
	"math"
	"math/rand"
)

// SineSeries generates a pure tone: cycles full periods over n samples.
func SineSeries(n, cycles int) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * float64(cycles) * float64(i) / float64(n))
	}
	return series
}

// NoiseSeries generates seeded uniform noise in [-1, 1).
func NoiseSeries(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	series := make([]float64, n)
	for i := range series {
		series[i] = 2*rng.Float64() - 1
	}
	return series
}

// PriceSeries generates a seeded random walk of price levels starting
// at base with per-step returns drawn uniformly from [-vol, vol].
func PriceSeries(n int, base, vol float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	series := make([]float64, n)
	level := base
	for i := range series {
		level *= 1 + vol*(2*rng.Float64()-1)
		series[i] = level
	}
	return series
}

// DrawdownSeries appends a cascade of fractional drops to a calm price
// prefix, producing the signature of a market crash.
func DrawdownSeries(calmLen int, base float64, drops []float64) []float64 {
	series := make([]float64, 0, calmLen+len(drops))
	level := base
	for i := 0; i < calmLen; i++ {
		step := 0.001
		if i%2 != 0 {
			step = -0.001
		}
		level *= 1 + step
		series = append(series, level)
	}
	for _, d := range drops {
		level *= 1 + d
		series = append(series, level)
	}
	return series
}

// EqualWeights returns n identical shares summing to 1.
func EqualWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}
	return weights
}

// ConcentratedWeights returns n shares with nearly all mass on the
// first component.
func ConcentratedWeights(n int, dominant float64) []float64 {
	weights := make([]float64, n)
	weights[0] = dominant
	rest := (1 - dominant) / float64(n-1)
	for i := 1; i < n; i++ {
		weights[i] = rest
	}
	return weights
}
