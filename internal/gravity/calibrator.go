package gravity

import (
	"github.com/montanaflynn/stats"

	"substratex/domain/core"
	domain "substratex/domain/gravity"
	"substratex/internal/errors"
)

// Calibration percentiles: CONTRACT at the 30th, EXPAND at the 70th.
const (
	contractPercentile = 30.0
	expandPercentile   = 70.0
	minCalibrationSize = 8
)

// Calibrate derives thresholds from an unlabeled sample of raw scores
// using the 30th/70th percentile rule.
func Calibrate(scores []float64) (domain.Thresholds, error) {
	if len(scores) < minCalibrationSize {
		return domain.Thresholds{}, errors.CalibrationFailed("calibration sample too small")
	}

	contract, err := stats.Percentile(scores, contractPercentile)
	if err != nil {
		return domain.Thresholds{}, errors.Wrap(err, "contract percentile failed")
	}
	expand, err := stats.Percentile(scores, expandPercentile)
	if err != nil {
		return domain.Thresholds{}, errors.Wrap(err, "expand percentile failed")
	}

	t := domain.Thresholds{Contract: contract, Expand: expand}
	if !t.Valid() {
		return domain.Thresholds{}, errors.WithCode(errors.CodeCalibrationFailed, core.ErrCalibrationFailed)
	}
	return t, nil
}

// CalibrateLabeled derives thresholds from labeled stable and critical
// score populations. Critical scores must lie strictly below stable
// scores; overlapping populations cannot be separated by a single
// threshold pair and are rejected.
func CalibrateLabeled(stable, critical []float64) (domain.Thresholds, error) {
	if len(stable) < minCalibrationSize/2 || len(critical) < minCalibrationSize/2 {
		return domain.Thresholds{}, errors.CalibrationFailed("labeled calibration sample too small")
	}

	minStable, err := stats.Min(stable)
	if err != nil {
		return domain.Thresholds{}, errors.Wrap(err, "stable minimum failed")
	}
	maxCritical, err := stats.Max(critical)
	if err != nil {
		return domain.Thresholds{}, errors.Wrap(err, "critical maximum failed")
	}

	if maxCritical >= minStable {
		return domain.Thresholds{}, errors.WithCode(errors.CodeCalibrationFailed, core.ErrPopulationOverlap)
	}

	// Contract at the separation midpoint, expand inside the stable mass
	expand, err := stats.Percentile(stable, expandPercentile)
	if err != nil {
		return domain.Thresholds{}, errors.Wrap(err, "stable percentile failed")
	}

	t := domain.Thresholds{
		Contract: (maxCritical + minStable) / 2,
		Expand:   expand,
	}
	if !t.Valid() {
		return domain.Thresholds{}, errors.CalibrationFailed("derived thresholds are not ordered")
	}
	return t, nil
}
