package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"substratex/domain/core"
	"substratex/domain/run"
	"substratex/internal/errors"
	"substratex/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Create inserts a new run manifest
func (r *RunRepositoryImpl) Create(ctx context.Context, manifest *run.Manifest) error {
	parametersJSON, countsJSON, err := marshalPayloads(manifest)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, kind, status, seed, parameters, counts,
			fingerprint, error_message, runtime_ms, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		manifest.RunID.String(), manifest.Kind, manifest.Status, manifest.Seed,
		parametersJSON, countsJSON, manifest.Fingerprint.String(),
		manifest.Error, manifest.RuntimeMs,
		manifest.CreatedAt.Time(), manifest.UpdatedAt.Time())
	if err != nil {
		return errors.Wrap(err, "failed to insert run")
	}
	return nil
}

// Update persists lifecycle changes on an existing manifest
func (r *RunRepositoryImpl) Update(ctx context.Context, manifest *run.Manifest) error {
	parametersJSON, countsJSON, err := marshalPayloads(manifest)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE runs SET
			status = $2,
			parameters = $3,
			counts = $4,
			fingerprint = $5,
			error_message = $6,
			runtime_ms = $7,
			updated_at = $8
		WHERE id = $1`,
		manifest.RunID.String(), manifest.Status, parametersJSON, countsJSON,
		manifest.Fingerprint.String(), manifest.Error, manifest.RuntimeMs,
		manifest.UpdatedAt.Time())
	if err != nil {
		return errors.Wrap(err, "failed to update run")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return core.ErrRunNotFound
	}
	return nil
}

// GetByID retrieves a run manifest by its identifier
func (r *RunRepositoryImpl) GetByID(ctx context.Context, id core.RunID) (*run.Manifest, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, status, seed, parameters, counts,
			   COALESCE(fingerprint, ''), COALESCE(error_message, ''),
			   runtime_ms, created_at, updated_at
		FROM runs
		WHERE id = $1`, id.String())

	manifest, err := scanManifest(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load run")
	}
	return manifest, nil
}

// ListByKind returns manifests of one kind, newest first
func (r *RunRepositoryImpl) ListByKind(ctx context.Context, kind run.Kind, limit, offset int) ([]*run.Manifest, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, status, seed, parameters, counts,
			   COALESCE(fingerprint, ''), COALESCE(error_message, ''),
			   runtime_ms, created_at, updated_at
		FROM runs
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, kind, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var manifests []*run.Manifest
	for rows.Next() {
		manifest, err := scanManifest(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		manifests = append(manifests, manifest)
	}
	return manifests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func marshalPayloads(manifest *run.Manifest) ([]byte, []byte, error) {
	parametersJSON, err := json.Marshal(manifest.Parameters)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode run parameters")
	}
	countsJSON, err := json.Marshal(manifest.Counts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode run counts")
	}
	return parametersJSON, countsJSON, nil
}

func scanManifest(row rowScanner) (*run.Manifest, error) {
	var (
		manifest       run.Manifest
		id             string
		parametersJSON []byte
		countsJSON     []byte
		fingerprint    string
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(&id, &manifest.Kind, &manifest.Status, &manifest.Seed,
		&parametersJSON, &countsJSON, &fingerprint, &manifest.Error,
		&manifest.RuntimeMs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	manifest.RunID = core.RunID(id)
	manifest.Fingerprint = core.Fingerprint(fingerprint)
	manifest.CreatedAt = core.NewTimestamp(createdAt)
	manifest.UpdatedAt = core.NewTimestamp(updatedAt)

	if len(parametersJSON) > 0 {
		if err := json.Unmarshal(parametersJSON, &manifest.Parameters); err != nil {
			return nil, errors.Wrap(err, "corrupt parameters payload")
		}
	}
	if len(countsJSON) > 0 {
		if err := json.Unmarshal(countsJSON, &manifest.Counts); err != nil {
			return nil, errors.Wrap(err, "corrupt counts payload")
		}
	}
	return &manifest, nil
}
