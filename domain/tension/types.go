package tension

import (
	"fmt"
)

// CUniversal is the governing constant relating baseline volatility and
// structural factor to the critical volatility threshold.
const CUniversal = 2.0

// DomainParams are the per-domain structural fingerprints of the
// tension detector.
type DomainParams struct {
	Name    string  `json:"name"`
	R       float64 `json:"r"`        // baseline volatility during calm
	K       float64 `json:"k"`        // structural factor
	MaxLoss float64 `json:"max_loss"` // momentum threshold for capitulation entry
}

// SigmaCritical returns the domain's critical volatility:
// σ_crit = C · R · K.
func (p DomainParams) SigmaCritical() float64 {
	return CUniversal * p.R * p.K
}

// Domains is the calibrated per-domain catalog.
func Domains() map[string]DomainParams {
	return map[string]DomainParams{
		"finance":     {Name: "finance", R: 0.012, K: 1.333, MaxLoss: -0.22},
		"social":      {Name: "social", R: 0.0016, K: 0.800, MaxLoss: -0.18},
		"geopolitics": {Name: "geopolitics", R: 0.0020, K: 0.800, MaxLoss: -0.25},
	}
}

// ForDomain looks up the catalog, rejecting unknown domains.
func ForDomain(name string) (DomainParams, error) {
	p, ok := Domains()[name]
	if !ok {
		return DomainParams{}, fmt.Errorf("unknown tension domain %q", name)
	}
	return p, nil
}

// Level classifies the combined tension score.
type Level string

const (
	LevelStable   Level = "STABLE"
	LevelTension  Level = "TENSION"
	LevelCrisis   Level = "CRISIS"
	LevelCollapse Level = "COLLAPSE_IMMINENT"
)

// Score boundaries for level classification
const (
	TensionScoreMin  = 0.5
	CrisisScoreMin   = 0.75
	CollapseScoreMin = 0.95
)

// Momentum thresholds feeding the momentum component of the score
const (
	MomentumCrisis  = -0.08
	MomentumExtreme = -0.15
)

// ClassifyLevel maps a combined score to a level.
func ClassifyLevel(score float64) Level {
	switch {
	case score >= CollapseScoreMin:
		return LevelCollapse
	case score >= CrisisScoreMin:
		return LevelCrisis
	case score >= TensionScoreMin:
		return LevelTension
	default:
		return LevelStable
	}
}

// Reading is the output of the defensive tension engine.
type Reading struct {
	Domain        string  `json:"domain"`
	SigmaCurrent  float64 `json:"sigma_current"`
	SigmaCritical float64 `json:"sigma_critical"`
	TensionRatio  float64 `json:"tension_ratio"`
	Momentum      float64 `json:"momentum"`
	Score         float64 `json:"score"`
	Level         Level   `json:"level"`
	PValue        float64 `json:"p_value"` // significance of volatility elevation
	SampleSize    int     `json:"sample_size"`
}

// Capitulation is the output of the offensive opportunity engine.
type Capitulation struct {
	Entry      bool    `json:"entry"`
	Confidence float64 `json:"confidence"`
	Reading    Reading `json:"reading"`
}
