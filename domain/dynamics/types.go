package dynamics

import (
	"math"

	"substratex/domain/core"
)

// Params holds the coefficients of the cubic instability law
// dx/dt = r·x + a·x² − b·x³ plus the engine's operating bounds.
type Params struct {
	R          float64 `json:"r"`          // linear growth rate
	A          float64 `json:"a"`          // self-reinforcement
	B          float64 `json:"b"`          // saturation coefficient
	NoiseCeil  float64 `json:"noise_ceil"` // upper bound of uniform additive noise
	Saturation float64 `json:"saturation"` // hard clamp on the state variable
	X0         float64 `json:"x0"`         // initial state
}

// DefaultParams returns the canonical engine coefficients: unit
// reinforcement and saturation, state clamped to [0, 1.5].
func DefaultParams() Params {
	return Params{
		R:          0.0,
		A:          1.0,
		B:          1.0,
		NoiseCeil:  0.0,
		Saturation: 1.5,
		X0:         0.01,
	}
}

// DomainProfile is a calibrated domain fingerprint. Alpha scales the
// growth rate (r = alpha·0.1) and Beta scales the noise amplitude
// (noise ∈ [0, 0.3·beta]).
type DomainProfile struct {
	Key   core.DomainKey `json:"key"`
	Name  string         `json:"name"`
	Alpha float64        `json:"alpha"`
	Beta  float64        `json:"beta"`
}

// Params expands a profile into engine coefficients.
func (p DomainProfile) Params() Params {
	params := DefaultParams()
	params.R = p.Alpha * 0.1
	params.NoiseCeil = 0.3 * p.Beta
	return params
}

// Catalog returns the calibrated domain profiles.
func Catalog() []DomainProfile {
	return []DomainProfile{
		{Key: "quantum", Name: "Quantum Decoherence", Alpha: 0.15, Beta: 0.6},
		{Key: "particle", Name: "Particle Physics", Alpha: 0.12, Beta: 0.65},
		{Key: "cosmology", Name: "Cosmology", Alpha: 0.18, Beta: 0.55},
		{Key: "blackhole", Name: "Black Hole Physics", Alpha: 0.9392, Beta: 0.0884},
		{Key: "darkmatter", Name: "Dark Matter", Alpha: 0.08, Beta: 0.7},
		{Key: "biology", Name: "Biology/Aging", Alpha: 0.032, Beta: 0.8},
		{Key: "virology", Name: "Virology", Alpha: 0.25, Beta: 0.4},
		{Key: "ecology", Name: "Ecology", Alpha: 0.1, Beta: 0.6},
		{Key: "finance", Name: "Finance", Alpha: 0.2, Beta: 0.5},
		{Key: "seismology", Name: "Seismology", Alpha: 0.15, Beta: 0.55},
		{Key: "energy", Name: "Energy Systems", Alpha: 0.12, Beta: 0.65},
		{Key: "social", Name: "Social Dynamics", Alpha: 0.18, Beta: 0.45},
		{Key: "urban", Name: "Urban Systems", Alpha: 0.14, Beta: 0.58},
		{Key: "agriculture", Name: "Agriculture", Alpha: 0.1, Beta: 0.62},
		{Key: "mycology", Name: "Mycology", Alpha: 0.08, Beta: 0.68},
		{Key: "gametheory", Name: "Game Theory", Alpha: 0.22, Beta: 0.48},
		{Key: "fluids", Name: "Non-Newtonian Fluids", Alpha: 0.16, Beta: 0.52},
	}
}

// ProfileByKey looks up a catalog profile.
func ProfileByKey(key core.DomainKey) (DomainProfile, bool) {
	for _, p := range Catalog() {
		if p.Key == key {
			return p, true
		}
	}
	return DomainProfile{}, false
}

// Regime classifies the long-run behavior of a trajectory
type Regime string

const (
	RegimeStable       Regime = "STABLE"
	RegimeTransitional Regime = "TRANSITIONAL"
	RegimeOscillatory  Regime = "OSCILLATORY"
	RegimeCritical     Regime = "CRITICAL"
)

// Regime classification cutoffs
const (
	StableFinalMax     = 0.3
	CriticalFinalMin   = 1.2
	OscillatoryStdMin  = 0.2
	nonTrivialStdFloor = 1e-4
)

// ClassifyRegime applies the behavior cutoffs to trajectory summary stats.
func ClassifyRegime(final, tailStd float64) Regime {
	switch {
	case final < StableFinalMax:
		return RegimeStable
	case final > CriticalFinalMin:
		return RegimeCritical
	case tailStd > OscillatoryStdMin:
		return RegimeOscillatory
	default:
		return RegimeTransitional
	}
}

// TrajectorySummary captures the long-run statistics of one integration
type TrajectorySummary struct {
	Profile  DomainProfile `json:"profile"`
	Final    float64       `json:"final"`
	TailMean float64       `json:"tail_mean"`
	TailStd  float64       `json:"tail_std"`
	Steps    int           `json:"steps"`
	Regime   Regime        `json:"regime"`
}

// Valid reports whether the trajectory exhibits bounded non-trivial
// dynamics: inside the saturation band, with real variation, and not
// parked at the stable fixed point.
func (s TrajectorySummary) Valid(saturation float64) bool {
	return s.Final > 0 && s.Final < saturation &&
		s.TailStd > nonTrivialStdFloor &&
		s.Regime != RegimeStable
}

// Equilibria returns the non-negative fixed points of the noise-free
// cubic law: x = 0 and, when real, x = (a ± √(a²+4br)) / (2b).
func Equilibria(p Params) []float64 {
	roots := []float64{0}
	if p.B == 0 {
		return roots
	}
	disc := p.A*p.A + 4*p.B*p.R
	if disc < 0 {
		return roots
	}
	sq := math.Sqrt(disc)
	for _, x := range []float64{(p.A - sq) / (2 * p.B), (p.A + sq) / (2 * p.B)} {
		if x > 0 {
			roots = append(roots, x)
		}
	}
	return roots
}
