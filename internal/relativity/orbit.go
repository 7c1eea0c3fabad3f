package relativity

import (
	"context"
	"math"

	domain "substratex/domain/relativity"
	"substratex/internal/errors"
	"substratex/internal/solver"
)

// OrbitConfig controls the numerical precession measurement.
type OrbitConfig struct {
	StepsPerOrbit int
	Orbits        int
	DivergeBound  float64 // absolute bound on any state component
	PostNewtonian bool    // false drops the 1PN term for the control run
}

// DefaultOrbitConfig resolves the observed precession to better than
// 0.1 arcsec/century.
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		StepsPerOrbit: 20000,
		Orbits:        8,
		DivergeBound:  100 * domain.AU,
		PostNewtonian: true,
	}
}

// orbitDerivative builds the planar two-body derivative with an optional
// first post-Newtonian correction. State layout: [x, y, vx, vy].
func orbitDerivative(postNewtonian bool) solver.Derivative {
	return func(t float64, y []float64, dy []float64) {
		x, py, vx, vy := y[0], y[1], y[2], y[3]
		r2 := x*x + py*py
		r := math.Sqrt(r2)
		r3 := r2 * r

		ax := -domain.GM * x / r3
		ay := -domain.GM * py / r3

		if postNewtonian {
			v2 := vx*vx + vy*vy
			rv := x*vx + py*vy
			f := domain.GM / (domain.C * domain.C * r3)
			ax += f * ((4*domain.GM/r-v2)*x + 4*rv*vx)
			ay += f * ((4*domain.GM/r-v2)*py + 4*rv*vy)
		}

		dy[0] = vx
		dy[1] = vy
		dy[2] = ax
		dy[3] = ay
	}
}

// IntegratedPrecession measures the perihelion advance in arcseconds per
// century by direct orbit integration. The orbit starts at perihelion on
// the +x axis; perihelion passages are located as upward zero crossings
// of r·v, and the advance is read off the drift of the passage angle.
func IntegratedPrecession(ctx context.Context, cfg OrbitConfig) (float64, error) {
	if cfg.StepsPerOrbit <= 0 || cfg.Orbits < 2 {
		return 0, errors.InvalidInput("orbit integration needs a positive step count and at least 2 orbits")
	}

	a := domain.MercurySemiMajor
	e := domain.MercuryEccentricity
	rPeri := a * (1 - e)
	vPeri := math.Sqrt(domain.GM * (1 + e) / rPeri)

	bound := cfg.DivergeBound
	if bound <= 0 {
		bound = 100 * domain.AU
	}

	dt := domain.MercuryPeriod / float64(cfg.StepsPerOrbit)
	it := solver.New(orbitDerivative(cfg.PostNewtonian), solver.Config{
		StepSize:     dt,
		DivergeBound: bound,
	})

	perihelion := solver.NewDetector(solver.Event{
		Value: func(t float64, y []float64) float64 {
			return y[0]*y[2] + y[1]*y[3]
		},
		Direction: 1,
	})

	var angles []float64
	state := []float64{rPeri, 0, 0, vPeri}
	_, err := it.Run(ctx, 0, state, cfg.Orbits*cfg.StepsPerOrbit,
		func(step int, t float64, y []float64) error {
			if hit, ok := perihelion.Observe(t, y); ok {
				angles = append(angles, math.Atan2(hit.Y[1], hit.Y[0]))
			}
			return nil
		})
	if err != nil {
		return 0, err
	}
	if len(angles) < 2 {
		return 0, errors.SolverDiverged("too few perihelion passages detected")
	}

	// The passage angle drifts by one precession increment per orbit;
	// the accumulated drift stays far below a radian over the run.
	drift := wrapAngle(angles[len(angles)-1])
	perOrbit := drift / float64(len(angles))

	return perOrbit * domain.ArcsecPerRadian * orbitsPerCentury(), nil
}

func wrapAngle(theta float64) float64 {
	w := math.Mod(theta+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}
