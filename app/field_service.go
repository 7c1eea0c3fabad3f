package app

import (
	"context"
	"fmt"
	"time"

	domain "substratex/domain/field"
	"substratex/domain/run"
	"substratex/internal"
	"substratex/internal/field"
	"substratex/ports"
)

// FieldService runs reaction-diffusion field simulations under run
// manifests.
type FieldService struct {
	runRepo ports.RunRepository
	logger  *internal.Logger
}

// NewFieldService wires a field service.
func NewFieldService(runRepo ports.RunRepository) *FieldService {
	return &FieldService{runRepo: runRepo, logger: internal.DefaultLogger}
}

// FieldRequest describes one field simulation.
type FieldRequest struct {
	Grid        domain.GridSpec       `json:"grid"`
	Params      domain.ReactionParams `json:"params"`
	Rho0        float64               `json:"rho0"`
	E0          float64               `json:"e0"`
	F0          float64               `json:"f0"`
	Steps       int                   `json:"steps"`
	RecordEvery int                   `json:"record_every"`
}

// Evolve runs one simulation and records its manifest.
func (s *FieldService) Evolve(ctx context.Context, req FieldRequest) (*domain.EvolutionResult, error) {
	manifest := run.NewManifest(run.KindField, 0, map[string]interface{}{
		"rows":  req.Grid.Rows,
		"cols":  req.Grid.Cols,
		"steps": req.Steps,
	})
	if err := s.runRepo.Create(ctx, manifest); err != nil {
		return nil, err
	}
	manifest.Start()
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}

	engine, err := field.NewEngine(req.Grid, req.Params)
	if err != nil {
		manifest.Fail(err)
		s.recordUpdate(ctx, manifest)
		return nil, err
	}
	engine.SeedUniform(req.Rho0, req.E0, req.F0)

	started := time.Now()
	result, err := engine.Run(ctx, req.Steps, req.RecordEvery)
	if err != nil {
		manifest.Fail(err)
		s.recordUpdate(ctx, manifest)
		return nil, err
	}

	manifest.Counts["recorded"] = len(result.History)
	manifest.Parameters["final_variance"] = fmt.Sprintf("%.6g", result.FinalVariance)
	manifest.Complete("", time.Since(started).Milliseconds())
	s.recordUpdate(ctx, manifest)
	return result, nil
}

func (s *FieldService) recordUpdate(ctx context.Context, manifest *run.Manifest) {
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		s.logger.Error("failed to update field run %s: %v", manifest.RunID, err)
	}
}
