package gravity

import (
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	domain "substratex/domain/gravity"
	"substratex/internal/errors"
)

const entropyGuard = 1e-10

// Concentration computes the Herfindahl-Hirschman index of a weight
// vector: the sum of squared shares. Equal weights give 1/n, a single
// dominant weight gives values near 1.
func Concentration(weights []float64) (float64, error) {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return 0, errors.InvalidInput("weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return 0, errors.InvalidInput("weights sum to zero")
	}

	hhi := 0.0
	for _, w := range weights {
		share := w / total
		hhi += share * share
	}
	return hhi, nil
}

// Inequality computes one minus the normalized Shannon entropy of the
// weight vector: 0 for uniform weights, approaching 1 as mass
// concentrates on a single element.
func Inequality(weights []float64) (float64, error) {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return 0, errors.InvalidInput("weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return 0, errors.InvalidInput("weights sum to zero")
	}
	if len(weights) < 2 {
		return 0, errors.InvalidInput("inequality needs at least two weights")
	}

	h := 0.0
	for _, w := range weights {
		p := w / total
		h += -p * math.Log2(p+entropyGuard)
	}
	hMax := math.Log2(float64(len(weights)))
	norm := h / hMax
	if norm > 1 {
		norm = 1
	}
	return 1 - norm, nil
}

// SpectralEntropy computes the normalized entropy of the power spectrum
// of a series: near 0 for a single dominant frequency, near 1 for
// broadband signals. The DC component is excluded.
func SpectralEntropy(series []float64) (float64, error) {
	if len(series) < 8 {
		return 0, errors.InvalidInput("spectral entropy needs at least 8 samples")
	}

	// Remove the mean so DC leakage does not dominate neighbors
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	// Power spectrum, skipping the DC bin
	power := make([]float64, 0, len(coeffs)-1)
	total := 0.0
	for _, c := range coeffs[1:] {
		p := cmplx.Abs(c)
		p = p * p
		power = append(power, p)
		total += p
	}
	if total == 0 {
		return 0, errors.New(errors.CodeInvalidInput, "series has no spectral content")
	}

	h := 0.0
	for _, p := range power {
		share := p / total
		h += -share * math.Log2(share+entropyGuard)
	}
	hMax := math.Log2(float64(len(power)))
	if hMax == 0 {
		return 0, nil
	}
	norm := h / hMax
	if norm > 1 {
		norm = 1
	}
	if norm < 0 {
		norm = 0
	}
	return norm, nil
}

// ComputeScore combines the three coherence components into the
// information-gravity score: the geometric mean, scaled for
// interpretability.
func ComputeScore(metrics domain.CoherenceMetrics, scale float64) domain.Score {
	raw := math.Cbrt(metrics.Spectral * metrics.Concentration * metrics.Inequality)
	if scale <= 0 {
		scale = domain.DefaultScale
	}
	return domain.Score{
		Metrics:      metrics,
		Raw:          raw,
		Value:        scale * raw,
		CalculatedAt: time.Now(),
	}
}
