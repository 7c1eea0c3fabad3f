package relativity

import (
	"time"

	"substratex/domain/core"
)

// CaseName identifies a validation case.
type CaseName string

const (
	CaseMercuryPrecession CaseName = "mercury_precession"
	CaseMercuryOrbit      CaseName = "mercury_precession_orbit"
	CaseSolarDeflection   CaseName = "solar_light_deflection"
	CasePulsarDecay       CaseName = "pulsar_orbital_decay"
)

// Observed anchor values the suite validates against.
const (
	ObservedPrecessionArcsec = 42.98    // arcsec/century, Mercury perihelion advance
	ObservedDeflectionArcsec = 1.7512   // arcsec, solar limb light deflection
	ObservedPulsarDecay      = -2.403e-12 // s/s, PSR B1913+16 orbital period decay
)

// Physical constants (SI)
const (
	G    = 6.67430e-11     // gravitational constant, m³/(kg·s²)
	C    = 299792458.0     // speed of light, m/s
	GM   = 1.32712440018e20 // solar gravitational parameter, m³/s²
	MSun = 1.98892e30      // solar mass, kg
	AU   = 1.495978707e11  // astronomical unit, m
	RSun = 6.957e8         // solar radius, m

	ArcsecPerRadian = 206264.80624709636
	SecondsPerDay   = 86400.0
	DaysPerCentury  = 36525.0
)

// Mercury orbital elements
const (
	MercurySemiMajor    = 0.387 * AU
	MercuryEccentricity = 0.205630
	MercuryPeriod       = 87.9691 * SecondsPerDay
)

// PSR B1913+16 system parameters
const (
	PulsarMass        = 1.4414 // solar masses
	CompanionMass     = 1.3867 // solar masses
	PulsarPeriod      = 27906.98   // orbital period, s
	PulsarEccentricity = 0.6171334
)

// CaseResult is the outcome of a single validation case.
type CaseResult struct {
	ID        core.CaseID   `json:"id"`
	Name      CaseName      `json:"name"`
	Predicted float64       `json:"predicted"`
	Observed  float64       `json:"observed"`
	Tolerance float64       `json:"tolerance"` // relative
	Passed    bool          `json:"passed"`
	Detail    string        `json:"detail,omitempty"`
	Error     string        `json:"error,omitempty"`
	Runtime   time.Duration `json:"runtime"`
}

// Deviation returns the relative deviation of prediction from observation.
func (r CaseResult) Deviation() float64 {
	if r.Observed == 0 {
		return 0
	}
	d := (r.Predicted - r.Observed) / r.Observed
	if d < 0 {
		return -d
	}
	return d
}

// SuiteResult aggregates a validation run.
type SuiteResult struct {
	RunID   core.RunID   `json:"run_id"`
	Cases   []CaseResult `json:"cases"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Runtime time.Duration `json:"runtime"`
}

// Success reports whether every case passed.
func (s SuiteResult) Success() bool { return s.Failed == 0 && len(s.Cases) > 0 }
