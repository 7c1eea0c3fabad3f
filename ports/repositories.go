package ports

import (
	"context"

	"substratex/domain/core"
	"substratex/domain/gravity"
	"substratex/domain/relativity"
	"substratex/domain/run"
)

// RunRepository persists run manifests
type RunRepository interface {
	Create(ctx context.Context, manifest *run.Manifest) error
	Update(ctx context.Context, manifest *run.Manifest) error
	GetByID(ctx context.Context, id core.RunID) (*run.Manifest, error)
	ListByKind(ctx context.Context, kind run.Kind, limit, offset int) ([]*run.Manifest, error)
}

// SignalRepository persists indicator readings
type SignalRepository interface {
	Create(ctx context.Context, runID core.RunID, reading *gravity.Reading) error
	ListRecent(ctx context.Context, limit int) ([]*gravity.Reading, error)
}

// CaseRepository persists validation case results
type CaseRepository interface {
	CreateBatch(ctx context.Context, runID core.RunID, cases []relativity.CaseResult) error
	ListByRun(ctx context.Context, runID core.RunID) ([]relativity.CaseResult, error)
}
