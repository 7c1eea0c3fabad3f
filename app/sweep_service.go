package app

import (
	"context"
	"path/filepath"
	"time"

	"substratex/domain/core"
	"substratex/domain/dynamics"
	"substratex/domain/run"
	"substratex/internal"
	"substratex/internal/sweep"
	"substratex/ports"
)

// SweepService orchestrates catalog sweeps: manifest lifecycle,
// execution, persistence and optional export.
type SweepService struct {
	runner    *sweep.Runner
	runRepo   ports.RunRepository
	exporter  ports.ExporterPort
	exportDir string
	logger    *internal.Logger
}

// NewSweepService wires a sweep service. The exporter is optional.
func NewSweepService(runner *sweep.Runner, runRepo ports.RunRepository, exporter ports.ExporterPort, exportDir string) *SweepService {
	return &SweepService{
		runner:    runner,
		runRepo:   runRepo,
		exporter:  exporter,
		exportDir: exportDir,
		logger:    internal.DefaultLogger,
	}
}

// SweepOutcome couples a completed manifest with its sweep result.
type SweepOutcome struct {
	Manifest *run.Manifest `json:"manifest"`
	Result   *sweep.Result `json:"result"`
}

// RunSweep executes a full catalog sweep under a fresh manifest.
func (s *SweepService) RunSweep(ctx context.Context, seed int64) (*SweepOutcome, error) {
	manifest := run.NewManifest(run.KindSweep, seed, map[string]interface{}{
		"catalog_size": len(dynamics.Catalog()),
	})
	if err := s.runRepo.Create(ctx, manifest); err != nil {
		return nil, err
	}

	manifest.Start()
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}
	s.logger.Info("starting %s", manifest.Describe())

	started := time.Now()
	result, err := s.runner.Run(ctx, manifest.RunID, seed)
	if err != nil {
		manifest.Fail(err)
		if updateErr := s.runRepo.Update(ctx, manifest); updateErr != nil {
			s.logger.Error("failed to record sweep failure: %v", updateErr)
		}
		return nil, err
	}

	for regime, n := range result.RegimeCounts {
		manifest.Counts[string(regime)] = n
	}
	manifest.Parameters["universality"] = result.Universality
	manifest.Complete(result.Fingerprint, time.Since(started).Milliseconds())
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}

	if s.exporter != nil && s.exportDir != "" {
		path := filepath.Join(s.exportDir, "sweep_"+manifest.RunID.String()+".xlsx")
		summaries := make([]dynamics.TrajectorySummary, 0, len(result.Outcomes))
		for _, o := range result.Outcomes {
			summaries = append(summaries, o.Summary)
		}
		if err := s.exporter.ExportSweep(ctx, manifest, summaries, path); err != nil {
			s.logger.Warn("sweep export failed: %v", err)
		}
	}

	return &SweepOutcome{Manifest: manifest, Result: result}, nil
}

// GetRun loads a run manifest.
func (s *SweepService) GetRun(ctx context.Context, id core.RunID) (*run.Manifest, error) {
	return s.runRepo.GetByID(ctx, id)
}

// ListRuns lists sweep manifests, newest first.
func (s *SweepService) ListRuns(ctx context.Context, limit, offset int) ([]*run.Manifest, error) {
	return s.runRepo.ListByKind(ctx, run.KindSweep, limit, offset)
}
