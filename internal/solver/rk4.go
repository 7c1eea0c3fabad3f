package solver

import (
	"context"
	"fmt"
	"math"

	"substratex/internal/errors"
)

// Derivative computes dy/dt for state y at time t, writing into dy.
// dy and y are always the same length.
type Derivative func(t float64, y []float64, dy []float64)

// Config holds integrator settings
type Config struct {
	StepSize     float64
	DivergeBound float64 // absolute bound on any state component
}

// DefaultConfig returns integration defaults suitable for the dynamics engines
func DefaultConfig() Config {
	return Config{
		StepSize:     0.05,
		DivergeBound: 1e12,
	}
}

// Integrator is a fixed-step classical Runge-Kutta (RK4) integrator.
// It is not safe for concurrent use; create one per goroutine.
type Integrator struct {
	cfg   Config
	deriv Derivative

	// scratch buffers reused across steps
	k1, k2, k3, k4, tmp []float64
}

// New creates an integrator for the given derivative function
func New(deriv Derivative, cfg Config) *Integrator {
	if cfg.StepSize <= 0 {
		cfg.StepSize = DefaultConfig().StepSize
	}
	if cfg.DivergeBound <= 0 {
		cfg.DivergeBound = DefaultConfig().DivergeBound
	}
	return &Integrator{cfg: cfg, deriv: deriv}
}

// StepSize returns the configured step
func (it *Integrator) StepSize() float64 { return it.cfg.StepSize }

func (it *Integrator) ensureScratch(n int) {
	if len(it.k1) != n {
		it.k1 = make([]float64, n)
		it.k2 = make([]float64, n)
		it.k3 = make([]float64, n)
		it.k4 = make([]float64, n)
		it.tmp = make([]float64, n)
	}
}

// Step advances y in place by one RK4 step from time t and returns t+dt
func (it *Integrator) Step(t float64, y []float64) float64 {
	n := len(y)
	it.ensureScratch(n)
	dt := it.cfg.StepSize

	it.deriv(t, y, it.k1)
	for i := 0; i < n; i++ {
		it.tmp[i] = y[i] + 0.5*dt*it.k1[i]
	}
	it.deriv(t+0.5*dt, it.tmp, it.k2)
	for i := 0; i < n; i++ {
		it.tmp[i] = y[i] + 0.5*dt*it.k2[i]
	}
	it.deriv(t+0.5*dt, it.tmp, it.k3)
	for i := 0; i < n; i++ {
		it.tmp[i] = y[i] + dt*it.k3[i]
	}
	it.deriv(t+dt, it.tmp, it.k4)
	for i := 0; i < n; i++ {
		y[i] += dt / 6.0 * (it.k1[i] + 2*it.k2[i] + 2*it.k3[i] + it.k4[i])
	}
	return t + dt
}

// Observer is called after every accepted step. Returning a non-nil error
// aborts the integration.
type Observer func(step int, t float64, y []float64) error

// Run integrates y0 forward for the given number of steps. The state slice
// is mutated in place and returned. Divergence (NaN, Inf or a component
// beyond the configured bound) aborts with a SOLVER_DIVERGED error.
func (it *Integrator) Run(ctx context.Context, t0 float64, y0 []float64, steps int, observe Observer) ([]float64, error) {
	t := t0
	for step := 1; step <= steps; step++ {
		// Context check amortized over a batch of cheap steps
		if step%1024 == 0 {
			select {
			case <-ctx.Done():
				return y0, ctx.Err()
			default:
			}
		}

		t = it.Step(t, y0)

		for i, v := range y0 {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > it.cfg.DivergeBound {
				return y0, errors.SolverDiverged(
					fmt.Sprintf("state component %d reached %g at step %d", i, v, step))
			}
		}

		if observe != nil {
			if err := observe(step, t, y0); err != nil {
				return y0, err
			}
		}
	}
	return y0, nil
}
