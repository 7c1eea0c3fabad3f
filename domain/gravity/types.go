package gravity

import (
	"time"
)

// CoherenceMetrics are the three components of the information-gravity
// score: spectral decentralization S, traffic concentration Q
// (Herfindahl–Hirschman index) and weight inequality δ2 (one minus
// normalized entropy). All three live on [0, 1].
type CoherenceMetrics struct {
	Spectral      float64 `json:"spectral"`
	Concentration float64 `json:"concentration"`
	Inequality    float64 `json:"inequality"`
}

// Score is a computed information-gravity score with its components.
type Score struct {
	Metrics      CoherenceMetrics `json:"metrics"`
	Raw          float64          `json:"raw"`   // geometric mean of the components
	Value        float64          `json:"value"` // Raw scaled by the interpretability factor
	CalculatedAt time.Time        `json:"calculated_at"`
}

// DefaultScale is the interpretability factor applied to the raw
// geometric mean.
const DefaultScale = 100.0

// Signal is the risk indicator verdict derived from a score.
type Signal string

const (
	SignalExpand   Signal = "EXPAND"
	SignalHold     Signal = "HOLD"
	SignalContract Signal = "CONTRACT"
)

// Thresholds are the calibrated signal boundaries on the raw score.
type Thresholds struct {
	Contract float64 `json:"contract"`
	Expand   float64 `json:"expand"`
}

// DefaultThresholds returns the percentile-calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Contract: 0.117, Expand: 0.453}
}

// Classify maps a raw score to a signal.
func (t Thresholds) Classify(raw float64) Signal {
	switch {
	case raw < t.Contract:
		return SignalContract
	case raw > t.Expand:
		return SignalExpand
	default:
		return SignalHold
	}
}

// Valid reports whether the thresholds are ordered.
func (t Thresholds) Valid() bool {
	return t.Contract < t.Expand
}

// Reading couples a score with its signal for persistence.
type Reading struct {
	Score  Score  `json:"score"`
	Signal Signal `json:"signal"`
	Source string `json:"source"`
}
