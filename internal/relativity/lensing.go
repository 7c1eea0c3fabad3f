package relativity

import (
	domain "substratex/domain/relativity"
	"substratex/internal/errors"
)

// DeflectionAngle returns the gravitational light deflection in
// arcseconds for a ray with the given impact parameter in meters:
// θ = 4GM / (c²b).
func DeflectionAngle(impact float64) (float64, error) {
	if impact <= 0 {
		return 0, errors.InvalidInput("impact parameter must be positive")
	}
	return 4 * domain.GM / (domain.C * domain.C * impact) * domain.ArcsecPerRadian, nil
}

// SolarLimbDeflection returns the deflection of a ray grazing the solar
// limb, the classical 1919 eclipse measurement.
func SolarLimbDeflection() float64 {
	theta, _ := DeflectionAngle(domain.RSun)
	return theta
}
