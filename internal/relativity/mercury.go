package relativity

import (
	"math"

	domain "substratex/domain/relativity"
)

// ClosedFormPrecession returns Mercury's relativistic perihelion advance
// in arcseconds per century from the first-order formula
// Δφ = 6πGM / (c²a(1−e²)) per orbit.
func ClosedFormPrecession() float64 {
	a := domain.MercurySemiMajor
	e := domain.MercuryEccentricity
	perOrbit := 6 * math.Pi * domain.GM / (domain.C * domain.C * a * (1 - e*e))
	return perOrbit * domain.ArcsecPerRadian * orbitsPerCentury()
}

func orbitsPerCentury() float64 {
	return domain.DaysPerCentury * domain.SecondsPerDay / domain.MercuryPeriod
}
