package field

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	domain "substratex/domain/field"
	"substratex/internal/errors"
)

// Engine evolves the coupled ρ/E/F reaction-diffusion system on a 2-D
// lattice with Neumann boundaries. ρ and E diffuse; F is a pure
// constraint field and only reacts.
type Engine struct {
	grid   domain.GridSpec
	params domain.ReactionParams

	rho, e, f *mat.Dense

	// scratch matrices reused every step
	lapRho, lapE          *mat.Dense
	dRho, dE, dF          *mat.Dense

	steps int
}

// NewEngine creates a field engine over the given grid
func NewEngine(grid domain.GridSpec, params domain.ReactionParams) (*Engine, error) {
	if grid.Rows < 3 || grid.Cols < 3 {
		return nil, errors.InvalidInput("field grid must be at least 3x3")
	}
	if params.DT <= 0 {
		return nil, errors.InvalidInput("field engine requires a positive step")
	}
	return &Engine{
		grid:   grid,
		params: params,
		rho:    mat.NewDense(grid.Rows, grid.Cols, nil),
		e:      mat.NewDense(grid.Rows, grid.Cols, nil),
		f:      mat.NewDense(grid.Rows, grid.Cols, nil),
		lapRho: mat.NewDense(grid.Rows, grid.Cols, nil),
		lapE:   mat.NewDense(grid.Rows, grid.Cols, nil),
		dRho:   mat.NewDense(grid.Rows, grid.Cols, nil),
		dE:     mat.NewDense(grid.Rows, grid.Cols, nil),
		dF:     mat.NewDense(grid.Rows, grid.Cols, nil),
	}, nil
}

// SetInitial loads the three field states. Dimensions must match the grid.
func (en *Engine) SetInitial(rho, e, f *mat.Dense) error {
	for _, m := range []*mat.Dense{rho, e, f} {
		r, c := m.Dims()
		if r != en.grid.Rows || c != en.grid.Cols {
			return errors.InvalidInput("initial field dimensions do not match grid")
		}
	}
	en.rho.Copy(rho)
	en.e.Copy(e)
	en.f.Copy(f)
	en.steps = 0
	return nil
}

// SeedUniform initializes all three fields to constant levels.
func (en *Engine) SeedUniform(rho0, e0, f0 float64) {
	fill(en.rho, rho0)
	fill(en.e, e0)
	fill(en.f, f0)
	en.steps = 0
}

// Fields returns the current field states (live references).
func (en *Engine) Fields() (rho, e, f *mat.Dense) {
	return en.rho, en.e, en.f
}

// laplacian applies the 5-point stencil on the interior, leaving the
// boundary ring at zero (dx = dy = 1).
func laplacian(dst, src *mat.Dense) {
	rows, cols := src.Dims()
	dst.Zero()
	for i := 1; i < rows-1; i++ {
		for j := 1; j < cols-1; j++ {
			dst.Set(i, j,
				src.At(i-1, j)+src.At(i+1, j)+
					src.At(i, j-1)+src.At(i, j+1)-
					4*src.At(i, j))
		}
	}
}

// Step advances all three fields by one forward Euler step.
func (en *Engine) Step() error {
	p := en.params
	rows, cols := en.grid.Rows, en.grid.Cols

	laplacian(en.lapRho, en.rho)
	laplacian(en.lapE, en.e)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rho := en.rho.At(i, j)
			e := en.e.At(i, j)
			f := en.f.At(i, j)

			// Density: development drives growth, constraints limit it
			rRho := p.Delta1*e*rho*(1-rho) - p.Delta2*f*rho
			// Development: density creates potential, constraints limit it
			rE := p.Alpha*rho + p.Beta*e*(1-e) - p.Gamma*f*e - p.TauE*e
			// Constraint: density sources, potential drains
			rF := p.R*rho - p.R*e - p.TauF*f

			en.dRho.Set(i, j, p.D*en.lapRho.At(i, j)+rRho)
			en.dE.Set(i, j, p.D*en.lapE.At(i, j)+rE)
			en.dF.Set(i, j, rF)
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rho := en.rho.At(i, j) + en.dRho.At(i, j)*p.DT
			e := en.e.At(i, j) + en.dE.At(i, j)*p.DT
			f := en.f.At(i, j) + en.dF.At(i, j)*p.DT

			// Fields remain non-negative
			en.rho.Set(i, j, math.Max(0, rho))
			en.e.Set(i, j, math.Max(0, e))
			en.f.Set(i, j, math.Max(0, f))
		}
	}

	en.steps++

	if v := mat.Max(en.rho); math.IsNaN(v) || math.IsInf(v, 0) || v > 1e9 {
		return errors.SolverDiverged("density field diverged")
	}
	return nil
}

// Run evolves the system for numSteps, recording metrics every
// recordEvery steps (0 records only the final state).
func (en *Engine) Run(ctx context.Context, numSteps, recordEvery int) (*domain.EvolutionResult, error) {
	if numSteps <= 0 {
		return nil, errors.InvalidInput("field run requires a positive step count")
	}

	result := &domain.EvolutionResult{}
	for step := 1; step <= numSteps; step++ {
		if step%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if err := en.Step(); err != nil {
			return nil, err
		}

		if recordEvery > 0 && step%recordEvery == 0 {
			result.History = append(result.History, en.metrics(step))
		}
	}

	final := en.metrics(numSteps)
	result.Steps = numSteps
	result.FinalVariance = final.RhoVariance
	result.Stable = !math.IsNaN(final.RhoVariance) && final.RhoMax < 1e9
	if recordEvery <= 0 {
		result.History = append(result.History, final)
	}
	return result, nil
}

func (en *Engine) metrics(step int) domain.StepMetrics {
	data := en.rho.RawMatrix().Data
	total := 0.0
	for _, v := range data {
		total += v
	}
	return domain.StepMetrics{
		Step:        step,
		RhoVariance: stat.Variance(data, nil),
		RhoMax:      mat.Max(en.rho),
		TotalMass:   total,
	}
}

func fill(m *mat.Dense, v float64) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, v)
		}
	}
}
