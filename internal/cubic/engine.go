package cubic

import (
	"context"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"substratex/domain/dynamics"
	"substratex/internal/errors"
)

// Engine integrates the cubic instability law for a single state
// variable, with optional uniform additive noise and hard saturation.
type Engine struct {
	DT    float64
	Steps int
}

// NewEngine creates an engine with the original step settings (dt=0.05,
// 1000 steps).
func NewEngine() *Engine {
	return &Engine{DT: 0.05, Steps: 1000}
}

// Result is one completed integration.
type Result struct {
	History []float64
	Summary dynamics.TrajectorySummary
}

// Run integrates the law under params. rng supplies the noise stream;
// a nil rng runs the deterministic law.
func (e *Engine) Run(ctx context.Context, params dynamics.Params, rng *rand.Rand) (*Result, error) {
	if e.DT <= 0 || e.Steps <= 0 {
		return nil, errors.InvalidInput("engine requires positive step size and count")
	}

	x := params.X0
	history := make([]float64, 0, e.Steps)

	for step := 0; step < e.Steps; step++ {
		if step%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		dx := params.R*x + params.A*x*x - params.B*x*x*x
		if rng != nil && params.NoiseCeil > 0 {
			dx += rng.Float64() * params.NoiseCeil
		}

		x += dx * e.DT
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.SolverDiverged("cubic law produced non-finite state")
		}

		// Saturation clamp
		if x < 0 {
			x = 0
		}
		if x > params.Saturation {
			x = params.Saturation
		}

		history = append(history, x)
	}

	summary, err := summarize(history)
	if err != nil {
		return nil, err
	}
	summary.Steps = e.Steps

	return &Result{History: history, Summary: summary}, nil
}

// RunProfile expands a domain profile and integrates it.
func (e *Engine) RunProfile(ctx context.Context, profile dynamics.DomainProfile, rng *rand.Rand) (*Result, error) {
	result, err := e.Run(ctx, profile.Params(), rng)
	if err != nil {
		return nil, err
	}
	result.Summary.Profile = profile
	return result, nil
}

// summarize computes the tail statistics over the second half of the
// trajectory and classifies the regime.
func summarize(history []float64) (dynamics.TrajectorySummary, error) {
	if len(history) < 2 {
		return dynamics.TrajectorySummary{}, errors.InvalidInput("trajectory too short to summarize")
	}

	tail := history[len(history)/2:]
	mean, err := stats.Mean(tail)
	if err != nil {
		return dynamics.TrajectorySummary{}, errors.Wrap(err, "tail mean computation failed")
	}
	std, err := stats.StandardDeviation(tail)
	if err != nil {
		return dynamics.TrajectorySummary{}, errors.Wrap(err, "tail deviation computation failed")
	}

	final := history[len(history)-1]
	return dynamics.TrajectorySummary{
		Final:    final,
		TailMean: mean,
		TailStd:  std,
		Regime:   dynamics.ClassifyRegime(final, std),
	}, nil
}
