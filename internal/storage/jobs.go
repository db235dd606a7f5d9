package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/model"
)

// CreateJob records a new analysis job in the queued state.
func (s *SQLiteStorage) CreateJob(ctx context.Context, siteInput string) (*model.AnalysisJob, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(siteInput, "siteInput"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &model.AnalysisJob{
		ID:        uuid.New().String(),
		SiteInput: siteInput,
		Status:    model.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, site_input, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, job.ID, job.SiteInput, string(job.Status), job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// GetJob returns a job by ID, or common.ErrJobNotFound.
func (s *SQLiteStorage) GetJob(ctx context.Context, id string) (*model.AnalysisJob, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var job model.AnalysisJob
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, site_input, status, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id).Scan(&job.ID, &job.SiteInput, &status, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job.Status = model.JobStatus(status)
	return &job, nil
}

// UpdateJobStatus advances a job through its state machine. Transitions
// not permitted by the state machine are rejected with
// common.ErrInvalidTransition.
func (s *SQLiteStorage) UpdateJobStatus(ctx context.Context, id string, status model.JobStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrInvalidTransition, status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", common.ErrJobNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read job status: %w", err)
	}

	if !model.JobStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, current, status)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	return tx.Commit()
}
