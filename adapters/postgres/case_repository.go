package postgres

import (
	"context"
	"time"

	"substratex/domain/core"
	"substratex/domain/relativity"
	"substratex/internal/errors"
	"substratex/ports"

	"github.com/jmoiron/sqlx"
)

// CaseRepositoryImpl implements CaseRepository for PostgreSQL
type CaseRepositoryImpl struct {
	db *sqlx.DB
}

// NewCaseRepository creates a new PostgreSQL validation case repository
func NewCaseRepository(db *sqlx.DB) ports.CaseRepository {
	return &CaseRepositoryImpl{db: db}
}

// CreateBatch persists a suite's case results in one transaction
func (r *CaseRepositoryImpl) CreateBatch(ctx context.Context, runID core.RunID, cases []relativity.CaseResult) error {
	if len(cases) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin case batch")
	}
	defer tx.Rollback()

	for _, c := range cases {
		id := c.ID
		if id == "" {
			id = core.CaseID(core.NewID())
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO validation_cases (
				id, run_id, name, predicted, observed, tolerance,
				passed, detail, error_message, runtime_ms
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			id.String(), runID.String(), c.Name, c.Predicted, c.Observed,
			c.Tolerance, c.Passed, c.Detail, c.Error, c.Runtime.Milliseconds())
		if err != nil {
			return errors.Wrapf(err, "failed to insert case %s", c.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit case batch")
	}
	return nil
}

// ListByRun returns the case results recorded for a run
func (r *CaseRepositoryImpl) ListByRun(ctx context.Context, runID core.RunID) ([]relativity.CaseResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, predicted, observed, tolerance, passed,
			   COALESCE(detail, ''), COALESCE(error_message, ''), runtime_ms
		FROM validation_cases
		WHERE run_id = $1
		ORDER BY created_at ASC`, runID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cases")
	}
	defer rows.Close()

	var cases []relativity.CaseResult
	for rows.Next() {
		var (
			c         relativity.CaseResult
			id        string
			runtimeMs int64
		)
		if err := rows.Scan(&id, &c.Name, &c.Predicted, &c.Observed, &c.Tolerance,
			&c.Passed, &c.Detail, &c.Error, &runtimeMs); err != nil {
			return nil, errors.Wrap(err, "failed to scan case row")
		}
		c.ID = core.CaseID(id)
		c.Runtime = time.Duration(runtimeMs) * time.Millisecond
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, core.ErrCaseNotFound
	}
	return cases, nil
}
