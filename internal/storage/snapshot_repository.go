package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// SnapshotRepository handles the append-only metrics-history table.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Append inserts a new metrics snapshot for a product.
func (r *SnapshotRepository) Append(ctx context.Context, s *domain.MetricsSnapshot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CapturedAt.IsZero() {
		s.CapturedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO metrics_history (
			id, product_id, captured_at, total_views, views_24h, views_72h,
			likes, comments, er_percent, ugc_percent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ProductID, s.CapturedAt, s.TotalViews, s.Views24h, s.Views72h,
		s.Likes, s.Comments, s.ERPercent, s.UGCPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}

	return nil
}

// History retrieves a product's snapshots ordered oldest first.
func (r *SnapshotRepository) History(ctx context.Context, productID string, limit int) ([]domain.MetricsSnapshot, error) {
	query := `
		SELECT id, product_id, captured_at, total_views, views_24h, views_72h,
		       likes, comments, er_percent, ugc_percent
		FROM metrics_history
		WHERE product_id = ?
		ORDER BY captured_at ASC
	`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var history []domain.MetricsSnapshot
	err := r.db.SelectContext(ctx, &history, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics history: %w", err)
	}

	if history == nil {
		history = []domain.MetricsSnapshot{}
	}

	return history, nil
}

// Latest retrieves a product's most recent snapshot, or nil when the
// product has no history yet.
func (r *SnapshotRepository) Latest(ctx context.Context, productID string) (*domain.MetricsSnapshot, error) {
	query := r.db.Rebind(`
		SELECT id, product_id, captured_at, total_views, views_24h, views_72h,
		       likes, comments, er_percent, ugc_percent
		FROM metrics_history
		WHERE product_id = ?
		ORDER BY captured_at DESC
		LIMIT 1
	`)

	var snapshots []domain.MetricsSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, productID); err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	return &snapshots[0], nil
}
