package migration

import (
	"context"
	"fmt"

	"substratex/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create runs table")
	}
	if err := r.createSignalsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create signals table")
	}
	if err := r.createValidationCasesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create validation_cases table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			seed BIGINT NOT NULL DEFAULT 0,
			parameters JSONB DEFAULT '{}',
			counts JSONB DEFAULT '{}',
			fingerprint VARCHAR(64),
			error_message TEXT,
			runtime_ms BIGINT DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createSignalsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS signals (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source VARCHAR(100),
			signal VARCHAR(20) NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			metrics JSONB DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createValidationCasesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS validation_cases (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			predicted DOUBLE PRECISION NOT NULL DEFAULT 0,
			observed DOUBLE PRECISION NOT NULL DEFAULT 0,
			tolerance DOUBLE PRECISION NOT NULL DEFAULT 0,
			passed BOOLEAN NOT NULL DEFAULT false,
			detail TEXT,
			error_message TEXT,
			runtime_ms BIGINT DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind)",
		"CREATE INDEX IF NOT EXISTS idx_runs_kind_created ON runs(kind, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)",

		"CREATE INDEX IF NOT EXISTS idx_signals_run_id ON signals(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_signals_created_at ON signals(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_signals_signal ON signals(signal)",

		"CREATE INDEX IF NOT EXISTS idx_cases_run_id ON validation_cases(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_cases_name ON validation_cases(name)",
		"CREATE INDEX IF NOT EXISTS idx_cases_passed ON validation_cases(passed)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			fmt.Printf("Warning: failed to create index: %v\n", err)
		}
	}

	return nil
}
