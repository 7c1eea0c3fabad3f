package sweep

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"substratex/domain/core"
	"substratex/domain/dynamics"
	"substratex/internal"
	"substratex/internal/cubic"
	"substratex/internal/errors"
	"substratex/ports"
)

// DefaultWorkers bounds concurrent domain integrations.
const DefaultWorkers = 4

// DomainOutcome is one domain's result within a sweep.
type DomainOutcome struct {
	Summary dynamics.TrajectorySummary `json:"summary"`
	Valid   bool                       `json:"valid"`
	Error   string                     `json:"error,omitempty"`
}

// Result aggregates a full catalog sweep.
type Result struct {
	RunID        core.RunID                `json:"run_id"`
	BaseSeed     int64                     `json:"base_seed"`
	Outcomes     []DomainOutcome           `json:"outcomes"` // catalog order
	RegimeCounts map[dynamics.Regime]int   `json:"regime_counts"`
	Universality float64                   `json:"universality"` // fraction of valid domains
	Fingerprint  core.Fingerprint          `json:"fingerprint"`
	Runtime      time.Duration             `json:"runtime"`
}

// Runner executes the cubic law across the whole domain catalog with a
// bounded worker pool and per-domain seeded noise streams.
type Runner struct {
	engine  *cubic.Engine
	rng     ports.RNGPort
	workers int
	logger  *internal.Logger
}

// NewRunner creates a sweep runner.
func NewRunner(rng ports.RNGPort, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{
		engine:  cubic.NewEngine(),
		rng:     rng,
		workers: workers,
		logger:  internal.DefaultLogger,
	}
}

// SetEngine replaces the cubic engine, usually to apply configured step
// settings. A nil engine keeps the current one.
func (r *Runner) SetEngine(engine *cubic.Engine) {
	if engine != nil {
		r.engine = engine
	}
}

// Run sweeps every catalog domain under the given base seed. Per-domain
// failures are recorded in the outcome rather than aborting the sweep;
// only a nil RNG port or canceled context fails the run.
func (r *Runner) Run(ctx context.Context, runID core.RunID, baseSeed int64) (*Result, error) {
	if r.rng == nil {
		return nil, errors.InvalidInput("sweep runner requires an RNG port")
	}

	catalog := dynamics.Catalog()
	outcomes := make([]DomainOutcome, len(catalog))
	jobs := make(chan int, len(catalog))

	started := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				outcomes[index] = r.runDomain(ctx, r.engine, runID, catalog[index], baseSeed)
			}
		}()
	}
	for i := range catalog {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:        runID,
		BaseSeed:     baseSeed,
		Outcomes:     outcomes,
		RegimeCounts: map[dynamics.Regime]int{},
		Runtime:      time.Since(started),
	}
	valid := 0
	for _, o := range outcomes {
		if o.Error != "" {
			continue
		}
		result.RegimeCounts[o.Summary.Regime]++
		if o.Valid {
			valid++
		}
	}
	result.Universality = float64(valid) / float64(len(catalog))
	result.Fingerprint = fingerprint(baseSeed, outcomes)

	r.logger.Info("sweep %s complete: %d/%d domains valid (%.0f%%), fingerprint %.12s",
		runID, valid, len(catalog), result.Universality*100, result.Fingerprint)
	return result, nil
}

func (r *Runner) runDomain(ctx context.Context, engine *cubic.Engine, runID core.RunID, profile dynamics.DomainProfile, baseSeed int64) DomainOutcome {
	rng, err := r.rng.Stream(ctx, runID.String(), profile.Key.String(), baseSeed)
	if err != nil {
		return DomainOutcome{Error: err.Error()}
	}

	run, err := engine.RunProfile(ctx, profile, rng)
	if err != nil {
		r.logger.Warn("domain %s failed: %v", profile.Key, err)
		return DomainOutcome{
			Summary: dynamics.TrajectorySummary{Profile: profile},
			Error:   err.Error(),
		}
	}

	return DomainOutcome{
		Summary: run.Summary,
		Valid:   run.Summary.Valid(profile.Params().Saturation),
	}
}

// fingerprint hashes the per-domain summaries in catalog order so
// identical seeds yield identical fingerprints.
func fingerprint(baseSeed int64, outcomes []DomainOutcome) core.Fingerprint {
	var b strings.Builder
	fmt.Fprintf(&b, "seed=%d;", baseSeed)
	for _, o := range outcomes {
		s := o.Summary
		fmt.Fprintf(&b, "%s:%.12g:%.12g:%.12g:%s;",
			s.Profile.Key, s.Final, s.TailMean, s.TailStd, s.Regime)
	}
	return core.NewFingerprint([]byte(b.String()))
}
