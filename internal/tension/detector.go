package tension

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	domain "substratex/domain/tension"
	"substratex/internal/errors"
)

// Minimum series length for a defensible volatility estimate
const minSeriesLength = 22

// Detector runs the dual-engine tension analysis for one calibrated
// domain: defensive tension detection and offensive capitulation entry.
type Detector struct {
	params domain.DomainParams
}

// NewDetector creates a detector for a catalog domain.
func NewDetector(domainName string) (*Detector, error) {
	params, err := domain.ForDomain(domainName)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return &Detector{params: params}, nil
}

// NewDetectorWithParams creates a detector with explicit parameters.
func NewDetectorWithParams(params domain.DomainParams) *Detector {
	return &Detector{params: params}
}

// Params returns the detector's domain parameters.
func (d *Detector) Params() domain.DomainParams { return d.params }

// DetectTension is the defensive engine: it scores current volatility
// against the domain's critical threshold plus a momentum component.
func (d *Detector) DetectTension(series []float64) (*domain.Reading, error) {
	if len(series) < minSeriesLength {
		return nil, errors.InvalidInput("series too short for tension detection")
	}

	returns, err := percentChanges(series)
	if err != nil {
		return nil, err
	}

	sigma, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, errors.Wrap(err, "volatility estimate failed")
	}

	sigmaCritical := d.params.SigmaCritical()
	tensionRatio := sigma / sigmaCritical

	recent := len(series) / 3
	if recent > 30 {
		recent = 30
	}
	base := series[len(series)-recent]
	if base == 0 {
		return nil, errors.InvalidInput("momentum base value is zero")
	}
	momentum := (series[len(series)-1] - base) / base

	// Volatility component capped at half the score; momentum adds the rest
	score := math.Min(tensionRatio*0.5, 0.5)
	if momentum < domain.MomentumExtreme {
		score += 0.5
	} else if momentum < domain.MomentumCrisis {
		score += 0.25
	}

	return &domain.Reading{
		Domain:        d.params.Name,
		SigmaCurrent:  sigma,
		SigmaCritical: sigmaCritical,
		TensionRatio:  tensionRatio,
		Momentum:      momentum,
		Score:         score,
		Level:         domain.ClassifyLevel(score),
		PValue:        volatilityPValue(sigma, sigmaCritical, len(returns)),
		SampleSize:    len(series),
	}, nil
}

// DetectCapitulation is the offensive engine: entry fires when volatility
// exceeds the critical threshold while momentum reaches the domain's
// maximum loss.
func (d *Detector) DetectCapitulation(series []float64) (*domain.Capitulation, error) {
	reading, err := d.DetectTension(series)
	if err != nil {
		return nil, err
	}

	result := &domain.Capitulation{Reading: *reading}
	if reading.TensionRatio > 1.0 && reading.Momentum <= d.params.MaxLoss {
		result.Entry = true
		result.Confidence = math.Min(0.95,
			(reading.TensionRatio-1.0)*2+math.Abs(reading.Momentum-d.params.MaxLoss)*3)
	}
	return result, nil
}

// percentChanges converts a level series to simple returns.
func percentChanges(series []float64) ([]float64, error) {
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			return nil, errors.InvalidInput("series contains zero level")
		}
		returns = append(returns, (series[i]-series[i-1])/series[i-1])
	}
	return returns, nil
}

// volatilityPValue tests whether current volatility significantly
// exceeds the critical threshold using a one-sided chi-squared variance
// test: T = (n−1)·s²/σ_crit² against χ²(n−1).
func volatilityPValue(sigma, sigmaCritical float64, n int) float64 {
	if n < 2 || sigmaCritical <= 0 {
		return 1.0
	}
	t := float64(n-1) * sigma * sigma / (sigmaCritical * sigmaCritical)
	dist := distuv.ChiSquared{K: float64(n - 1)}
	p := 1.0 - dist.CDF(t)
	if p < 0 {
		return 0
	}
	return p
}
