package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// productColumns is the select list shared by product queries.
const productColumns = `id, platform, category, name_original, name_translated, sku,
	product_url, seller_url, price, listing_age_days,
	hooks_original, hooks_translated, offers_original, offers_translated,
	insight, risks, reproducibility, sampling_ease, fit_score,
	trend_score, priority, status, detected_at, created_at, updated_at`

// ProductRepository handles database operations for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.DetectedAt.IsZero() {
		p.DetectedAt = now
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusNew
	}

	query := r.db.Rebind(`
		INSERT INTO products (
			id, platform, category, name_original, name_translated, sku,
			product_url, seller_url, price, listing_age_days,
			hooks_original, hooks_translated, offers_original, offers_translated,
			insight, risks, reproducibility, sampling_ease, fit_score,
			trend_score, priority, status, detected_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Platform, p.Category, p.NameOriginal, p.NameTranslated, p.SKU,
		p.ProductURL, p.SellerURL, p.Price, p.ListingAgeDays,
		p.HooksOriginal, p.HooksTranslated, p.OffersOriginal, p.OffersTranslated,
		p.Insight, p.Risks, p.Reproducibility, p.SamplingEase, p.FitScore,
		p.TrendScore, p.Priority, p.Status, p.DetectedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)

	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// FindExisting looks up a product by its dedupe identity, in the same
// order the in-batch key uses: platform + name + SKU when a SKU is known,
// then the product URL, then platform + name as the last resort. Returns
// nil when no match exists.
func (r *ProductRepository) FindExisting(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var existing domain.Product

	if p.SKU != nil && *p.SKU != "" {
		query := r.db.Rebind(`
			SELECT ` + productColumns + ` FROM products
			WHERE platform = ? AND name_original = ? AND sku = ?
		`)
		err := r.db.GetContext(ctx, &existing, query, p.Platform, p.NameOriginal, *p.SKU)
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to find product: %w", err)
		}
		return nil, nil
	}

	if p.ProductURL != nil && *p.ProductURL != "" {
		query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE product_url = ?`)
		err := r.db.GetContext(ctx, &existing, query, *p.ProductURL)
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to find product by url: %w", err)
		}
		return nil, nil
	}

	query := r.db.Rebind(`
		SELECT ` + productColumns + ` FROM products
		WHERE platform = ? AND name_original = ?
		  AND COALESCE(sku, '') = '' AND COALESCE(product_url, '') = ''
	`)
	err := r.db.GetContext(ctx, &existing, query, p.Platform, p.NameOriginal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &existing, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Platform      string
	Priority      string
	Status        string
	MinTrendScore float64
	Limit         int
	Offset        int
}

// List retrieves products ordered by trend score descending, fit score as
// tiebreak.
func (r *ProductRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, filter.Platform)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.MinTrendScore > 0 {
		query += ` AND trend_score >= ?`
		args = append(args, filter.MinTrendScore)
	}

	query += ` ORDER BY trend_score DESC, COALESCE(fit_score, 0) DESC, detected_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if products == nil {
		products = []*domain.Product{}
	}

	return products, nil
}

// Update updates an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`
		UPDATE products
		SET category = ?, name_translated = ?, sku = ?, product_url = ?,
		    seller_url = ?, price = ?, listing_age_days = ?,
		    hooks_original = ?, hooks_translated = ?,
		    offers_original = ?, offers_translated = ?,
		    insight = ?, risks = ?, reproducibility = ?, sampling_ease = ?,
		    fit_score = ?, trend_score = ?, priority = ?, status = ?,
		    updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		p.Category, p.NameTranslated, p.SKU, p.ProductURL,
		p.SellerURL, p.Price, p.ListingAgeDays,
		p.HooksOriginal, p.HooksTranslated,
		p.OffersOriginal, p.OffersTranslated,
		p.Insight, p.Risks, p.Reproducibility, p.SamplingEase,
		p.FitScore, p.TrendScore, p.Priority, p.Status,
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}

	return nil
}

// Count returns the number of products matching the filter.
func (r *ProductRepository) Count(ctx context.Context, filter ListFilter) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE 1=1`
	var args []any

	if filter.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, filter.Platform)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
