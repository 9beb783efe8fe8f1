package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is portable DDL shared by the sqlite3 and postgres drivers.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id               TEXT PRIMARY KEY,
		platform         TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		name_original    TEXT NOT NULL,
		name_translated  TEXT,
		sku              TEXT,
		product_url      TEXT,
		seller_url       TEXT,
		price            TEXT,
		listing_age_days INTEGER,
		hooks_original   TEXT,
		hooks_translated TEXT,
		offers_original  TEXT,
		offers_translated TEXT,
		insight          TEXT,
		risks            TEXT,
		reproducibility  INTEGER,
		sampling_ease    INTEGER,
		fit_score        INTEGER,
		trend_score      REAL NOT NULL DEFAULT 0,
		priority         TEXT NOT NULL DEFAULT 'B',
		status           TEXT NOT NULL DEFAULT 'new',
		detected_at      TIMESTAMP NOT NULL,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`DROP INDEX IF EXISTS idx_products_dedupe`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_dedupe_sku
		ON products (platform, name_original, sku) WHERE sku IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_dedupe_url
		ON products (product_url) WHERE sku IS NULL AND product_url IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_dedupe_name
		ON products (platform, name_original) WHERE sku IS NULL AND product_url IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_products_trend_score
		ON products (trend_score)`,
	`CREATE TABLE IF NOT EXISTS metrics_history (
		id          TEXT PRIMARY KEY,
		product_id  TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		captured_at TIMESTAMP NOT NULL,
		total_views INTEGER NOT NULL DEFAULT 0,
		views_24h   INTEGER NOT NULL DEFAULT 0,
		views_72h   INTEGER NOT NULL DEFAULT 0,
		likes       INTEGER NOT NULL DEFAULT 0,
		comments    INTEGER NOT NULL DEFAULT 0,
		er_percent  REAL,
		ugc_percent REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_history_product
		ON metrics_history (product_id, captured_at)`,
	`CREATE TABLE IF NOT EXISTS scan_runs (
		id             TEXT PRIMARY KEY,
		status         TEXT NOT NULL DEFAULT 'pending',
		run_trigger    TEXT NOT NULL DEFAULT 'manual',
		products_found INTEGER NOT NULL DEFAULT 0,
		products_kept  INTEGER NOT NULL DEFAULT 0,
		report_path    TEXT,
		error_message  TEXT,
		created_at     TIMESTAMP NOT NULL,
		started_at     TIMESTAMP,
		completed_at   TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_runs_status
		ON scan_runs (status, created_at)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
