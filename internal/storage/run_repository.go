package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// RunRepository handles database operations for scan runs.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new scan run.
func (r *RunRepository) Create(ctx context.Context, run *domain.ScanRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusPending
	}
	if run.Trigger == "" {
		run.Trigger = domain.RunTriggerManual
	}
	run.CreatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO scan_runs (id, status, run_trigger, products_found, products_kept,
		                       report_path, error_message, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Trigger, run.ProductsFound, run.ProductsKept,
		run.ReportPath, run.ErrorMessage, run.CreatedAt, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan run: %w", err)
	}

	return nil
}

// GetByID retrieves a scan run by its ID.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.ScanRun, error) {
	var run domain.ScanRun
	query := r.db.Rebind(`
		SELECT id, status, run_trigger, products_found, products_kept,
		       report_path, error_message, created_at, started_at, completed_at
		FROM scan_runs
		WHERE id = ?
	`)

	err := r.db.GetContext(ctx, &run, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scan run %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}

	return &run, nil
}

// List retrieves scan runs newest first, optionally filtered by status.
func (r *RunRepository) List(ctx context.Context, status string, limit, offset int) ([]*domain.ScanRun, error) {
	query := `
		SELECT id, status, run_trigger, products_found, products_kept,
		       report_path, error_message, created_at, started_at, completed_at
		FROM scan_runs
	`
	var args []any

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var runs []*domain.ScanRun
	err := r.db.SelectContext(ctx, &runs, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan runs: %w", err)
	}

	if runs == nil {
		runs = []*domain.ScanRun{}
	}

	return runs, nil
}

// Update updates an existing scan run.
func (r *RunRepository) Update(ctx context.Context, run *domain.ScanRun) error {
	query := r.db.Rebind(`
		UPDATE scan_runs
		SET status = ?, products_found = ?, products_kept = ?, report_path = ?,
		    error_message = ?, started_at = ?, completed_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		run.Status, run.ProductsFound, run.ProductsKept, run.ReportPath,
		run.ErrorMessage, run.StartedAt, run.CompletedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scan run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("scan run %s: %w", run.ID, ErrNotFound)
	}

	return nil
}
