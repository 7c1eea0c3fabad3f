package relativity

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"substratex/domain/core"
	domain "substratex/domain/relativity"
	"substratex/internal"
)

// DefaultTolerance is the relative deviation allowed between prediction
// and observation for a case to pass.
const DefaultTolerance = 0.005

// Case is a single named prediction check.
type Case struct {
	Name      domain.CaseName
	Observed  float64
	Cost      int64 // semaphore weight, orbit integration dominates
	Tolerance float64
	Predict   func(ctx context.Context) (float64, string, error)
}

// Suite runs the relativity benchmark cases concurrently with weighted
// capacity so the heavy orbit integration does not starve the cheap
// closed-form cases.
type Suite struct {
	capacity    int64
	caseTimeout time.Duration
	orbitCfg    OrbitConfig
	logger      *internal.Logger
}

// NewSuite creates a suite. Capacity bounds the summed cost of cases
// running at once.
func NewSuite(capacity int64, caseTimeout time.Duration) *Suite {
	if capacity <= 0 {
		capacity = 8
	}
	if caseTimeout <= 0 {
		caseTimeout = 2 * time.Minute
	}
	return &Suite{
		capacity:    capacity,
		caseTimeout: caseTimeout,
		orbitCfg:    DefaultOrbitConfig(),
		logger:      internal.DefaultLogger,
	}
}

// SetOrbitConfig overrides the orbit integration settings, mainly for
// faster smoke runs.
func (s *Suite) SetOrbitConfig(cfg OrbitConfig) { s.orbitCfg = cfg }

// Cases returns the full benchmark in execution order.
func (s *Suite) Cases() []Case {
	return []Case{
		{
			Name:      domain.CaseMercuryPrecession,
			Observed:  domain.ObservedPrecessionArcsec,
			Cost:      1,
			Tolerance: DefaultTolerance,
			Predict: func(ctx context.Context) (float64, string, error) {
				return ClosedFormPrecession(), "first-order perihelion advance formula", nil
			},
		},
		{
			Name:      domain.CaseMercuryOrbit,
			Observed:  domain.ObservedPrecessionArcsec,
			Cost:      6,
			Tolerance: DefaultTolerance,
			Predict: func(ctx context.Context) (float64, string, error) {
				v, err := IntegratedPrecession(ctx, s.orbitCfg)
				detail := fmt.Sprintf("numerical integration, %d orbits at %d steps/orbit",
					s.orbitCfg.Orbits, s.orbitCfg.StepsPerOrbit)
				return v, detail, err
			},
		},
		{
			Name:      domain.CaseSolarDeflection,
			Observed:  domain.ObservedDeflectionArcsec,
			Cost:      1,
			Tolerance: DefaultTolerance,
			Predict: func(ctx context.Context) (float64, string, error) {
				return SolarLimbDeflection(), "light deflection at the solar limb", nil
			},
		},
		{
			Name:      domain.CasePulsarDecay,
			Observed:  domain.ObservedPulsarDecay,
			Cost:      1,
			Tolerance: DefaultTolerance,
			Predict: func(ctx context.Context) (float64, string, error) {
				return PulsarOrbitalDecay(), "Peters-Mathews quadrupole decay, PSR B1913+16", nil
			},
		},
	}
}

// Run executes the benchmark and aggregates results under the given run.
func (s *Suite) Run(ctx context.Context, runID core.RunID) domain.SuiteResult {
	cases := s.Cases()
	sem := semaphore.NewWeighted(s.capacity)
	results := make([]domain.CaseResult, len(cases))
	done := make(chan int, len(cases))

	started := time.Now()
	for i, c := range cases {
		go func(index int, c Case) {
			results[index] = s.runCase(ctx, sem, c)
			done <- index
		}(i, c)
	}

	suite := domain.SuiteResult{RunID: runID}
	for range cases {
		index := <-done
		r := results[index]
		if r.Passed {
			suite.Passed++
			s.logger.Info("case %s passed: predicted %.6g observed %.6g (%.3f%% off)",
				r.Name, r.Predicted, r.Observed, r.Deviation()*100)
		} else {
			suite.Failed++
			s.logger.Warn("case %s failed: predicted %.6g observed %.6g: %s",
				r.Name, r.Predicted, r.Observed, r.Error)
		}
	}
	suite.Cases = results
	suite.Runtime = time.Since(started)
	return suite
}

func (s *Suite) runCase(ctx context.Context, sem *semaphore.Weighted, c Case) domain.CaseResult {
	result := domain.CaseResult{
		ID:        core.CaseID(core.NewID()),
		Name:      c.Name,
		Observed:  c.Observed,
		Tolerance: c.Tolerance,
	}

	cost := c.Cost
	if cost <= 0 {
		cost = 1
	}
	if cost > s.capacity {
		cost = s.capacity
	}
	if err := sem.Acquire(ctx, cost); err != nil {
		result.Error = fmt.Sprintf("capacity unavailable: %v", err)
		return result
	}
	defer sem.Release(cost)

	caseCtx, cancel := context.WithTimeout(ctx, s.caseTimeout)
	defer cancel()

	started := time.Now()
	predicted, detail, err := c.Predict(caseCtx)
	result.Runtime = time.Since(started)
	result.Detail = detail
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Predicted = predicted
	result.Passed = result.Deviation() <= c.Tolerance
	if !result.Passed {
		result.Error = fmt.Sprintf("deviation %.4f%% exceeds tolerance %.4f%%",
			result.Deviation()*100, c.Tolerance*100)
	}
	return result
}
