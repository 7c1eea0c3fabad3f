package postgres

import (
	"context"
	"encoding/json"
	"time"

	"substratex/domain/core"
	"substratex/domain/gravity"
	"substratex/internal/errors"
	"substratex/ports"

	"github.com/jmoiron/sqlx"
)

// SignalRepositoryImpl implements SignalRepository for PostgreSQL
type SignalRepositoryImpl struct {
	db *sqlx.DB
}

// NewSignalRepository creates a new PostgreSQL signal repository
func NewSignalRepository(db *sqlx.DB) ports.SignalRepository {
	return &SignalRepositoryImpl{db: db}
}

// Create persists an indicator reading under its run
func (r *SignalRepositoryImpl) Create(ctx context.Context, runID core.RunID, reading *gravity.Reading) error {
	metricsJSON, err := json.Marshal(reading.Score)
	if err != nil {
		return errors.Wrap(err, "failed to encode signal metrics")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO signals (id, run_id, source, signal, score, metrics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		core.NewID().String(), runID.String(), reading.Source, reading.Signal,
		reading.Score.Value, metricsJSON, reading.Score.CalculatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert signal")
	}
	return nil
}

// ListRecent returns the latest readings, newest first
func (r *SignalRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*gravity.Reading, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(source, ''), signal, score, metrics, created_at
		FROM signals
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list signals")
	}
	defer rows.Close()

	var readings []*gravity.Reading
	for rows.Next() {
		var (
			reading     gravity.Reading
			metricsJSON []byte
			createdAt   time.Time
		)
		if err := rows.Scan(&reading.Source, &reading.Signal, &reading.Score.Value,
			&metricsJSON, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan signal row")
		}
		if len(metricsJSON) > 0 {
			if err := json.Unmarshal(metricsJSON, &reading.Score); err != nil {
				return nil, errors.Wrap(err, "corrupt signal metrics payload")
			}
		}
		reading.Score.CalculatedAt = createdAt
		readings = append(readings, &reading)
	}
	return readings, rows.Err()
}
