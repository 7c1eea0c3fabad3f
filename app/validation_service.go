package app

import (
	"context"
	"path/filepath"
	"time"

	"substratex/domain/core"
	domain "substratex/domain/relativity"
	"substratex/domain/run"
	"substratex/internal"
	"substratex/internal/errors"
	"substratex/internal/relativity"
	"substratex/ports"
)

// ValidationService orchestrates the relativity benchmark suite.
type ValidationService struct {
	suite     *relativity.Suite
	runRepo   ports.RunRepository
	caseRepo  ports.CaseRepository
	exporter  ports.ExporterPort
	exportDir string
	logger    *internal.Logger
}

// NewValidationService wires a validation service. Exporter is optional.
func NewValidationService(suite *relativity.Suite, runRepo ports.RunRepository, caseRepo ports.CaseRepository, exporter ports.ExporterPort, exportDir string) *ValidationService {
	return &ValidationService{
		suite:     suite,
		runRepo:   runRepo,
		caseRepo:  caseRepo,
		exporter:  exporter,
		exportDir: exportDir,
		logger:    internal.DefaultLogger,
	}
}

// RunSuite executes the benchmark under a fresh manifest and persists
// every case result.
func (s *ValidationService) RunSuite(ctx context.Context) (*domain.SuiteResult, error) {
	manifest := run.NewManifest(run.KindValidation, 0, nil)
	if err := s.runRepo.Create(ctx, manifest); err != nil {
		return nil, err
	}

	manifest.Start()
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}
	s.logger.Info("starting %s", manifest.Describe())

	started := time.Now()
	result := s.suite.Run(ctx, manifest.RunID)

	if err := s.caseRepo.CreateBatch(ctx, manifest.RunID, result.Cases); err != nil {
		s.logger.Error("failed to persist case results: %v", err)
	}

	manifest.Counts["passed"] = result.Passed
	manifest.Counts["failed"] = result.Failed
	if result.Success() {
		manifest.Complete(suiteFingerprint(&result), time.Since(started).Milliseconds())
	} else {
		manifest.Fail(errors.New(errors.CodeValidationError, "one or more validation cases failed"))
		manifest.RuntimeMs = time.Since(started).Milliseconds()
	}
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}

	if s.exporter != nil && s.exportDir != "" {
		path := filepath.Join(s.exportDir, "validation_"+manifest.RunID.String()+".xlsx")
		if err := s.exporter.ExportValidation(ctx, &result, path); err != nil {
			s.logger.Warn("validation export failed: %v", err)
		}
	}

	return &result, nil
}

// ListCases returns the persisted case results for a validation run.
func (s *ValidationService) ListCases(ctx context.Context, runID core.RunID) ([]domain.CaseResult, error) {
	return s.caseRepo.ListByRun(ctx, runID)
}

// suiteFingerprint hashes the predicted values so reruns of identical
// code produce identical fingerprints.
func suiteFingerprint(result *domain.SuiteResult) core.Fingerprint {
	params := make(map[string]interface{}, len(result.Cases))
	for _, c := range result.Cases {
		params[string(c.Name)] = c.Predicted
	}
	return core.ComputeParamsFingerprint(params)
}
