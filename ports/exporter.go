package ports

import (
	"context"

	"substratex/domain/dynamics"
	"substratex/domain/relativity"
	"substratex/domain/run"
)

// ExporterPort writes run outputs to an external format
type ExporterPort interface {
	ExportSweep(ctx context.Context, manifest *run.Manifest, summaries []dynamics.TrajectorySummary, path string) error
	ExportValidation(ctx context.Context, suite *relativity.SuiteResult, path string) error
}
