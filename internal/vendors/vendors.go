// Package vendors defines the collector contract shared by the product
// data providers.
package vendors

import (
	"context"
	"errors"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// ErrUnavailable is returned when a provider is disabled or its API
// cannot be reached.
var ErrUnavailable = errors.New("vendor unavailable")

// Item is one collected product with the metrics captured alongside it.
type Item struct {
	Product  *domain.Product
	Snapshot *domain.MetricsSnapshot
}

// Collector gathers trending products from one provider.
type Collector interface {
	// Name identifies the provider in logs and run summaries.
	Name() string
	// Collect fetches the current trending products.
	Collect(ctx context.Context) ([]Item, error)
}
