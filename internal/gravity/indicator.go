package gravity

import (
	domain "substratex/domain/gravity"
	"substratex/internal/errors"
)

// Indicator derives EXPAND/HOLD/CONTRACT signals from coherence scores.
type Indicator struct {
	thresholds domain.Thresholds
	scale      float64
}

// NewIndicator creates an indicator with the given thresholds.
func NewIndicator(thresholds domain.Thresholds, scale float64) (*Indicator, error) {
	if !thresholds.Valid() {
		return nil, errors.InvalidInput("contract threshold must be below expand threshold")
	}
	if scale <= 0 {
		scale = domain.DefaultScale
	}
	return &Indicator{thresholds: thresholds, scale: scale}, nil
}

// Thresholds returns the active thresholds.
func (ind *Indicator) Thresholds() domain.Thresholds { return ind.thresholds }

// Evaluate computes the information-gravity reading for a weight vector
// (traffic shares) and an activity series (for the spectral component).
func (ind *Indicator) Evaluate(weights, series []float64, source string) (*domain.Reading, error) {
	q, err := Concentration(weights)
	if err != nil {
		return nil, errors.Wrap(err, "concentration computation failed")
	}
	d2, err := Inequality(weights)
	if err != nil {
		return nil, errors.Wrap(err, "inequality computation failed")
	}
	s, err := SpectralEntropy(series)
	if err != nil {
		return nil, errors.Wrap(err, "spectral entropy computation failed")
	}

	score := ComputeScore(domain.CoherenceMetrics{
		Spectral:      s,
		Concentration: q,
		Inequality:    d2,
	}, ind.scale)

	return &domain.Reading{
		Score:  score,
		Signal: ind.thresholds.Classify(score.Raw),
		Source: source,
	}, nil
}

// EvaluateScore classifies a previously computed score.
func (ind *Indicator) EvaluateScore(score domain.Score, source string) *domain.Reading {
	return &domain.Reading{
		Score:  score,
		Signal: ind.thresholds.Classify(score.Raw),
		Source: source,
	}
}
