package relativity

import (
	"math"

	domain "substratex/domain/relativity"
)

// PulsarOrbitalDecay returns the predicted orbital period derivative
// (s/s) of PSR B1913+16 from gravitational wave emission, using the
// Peters-Mathews quadrupole formula:
//
//	Ṗb = −(192π/5) · (2πG·M / (Pb·c³))^(5/3) · (m₁m₂/M²) · f(e)
//
// with the eccentricity enhancement
// f(e) = (1 + 73/24·e² + 37/96·e⁴) / (1−e²)^(7/2).
func PulsarOrbitalDecay() float64 {
	mp := domain.PulsarMass * domain.MSun
	mc := domain.CompanionMass * domain.MSun
	total := mp + mc
	e := domain.PulsarEccentricity
	pb := domain.PulsarPeriod

	e2 := e * e
	enhancement := (1 + 73.0/24.0*e2 + 37.0/96.0*e2*e2) / math.Pow(1-e2, 3.5)

	base := math.Pow(2*math.Pi*domain.G*total/(pb*domain.C*domain.C*domain.C), 5.0/3.0)
	return -(192 * math.Pi / 5) * base * (mp * mc / (total * total)) * enhancement
}
