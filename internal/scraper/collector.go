package scraper

import (
	"context"

	"github.com/jonesrussell/trendradar/internal/vendors"
)

// SourceCollector adapts one configured source to the collector contract
// shared with the API-backed providers.
type SourceCollector struct {
	scraper *Scraper
	source  *Source
}

// NewSourceCollector wraps a source for use alongside vendor clients.
func NewSourceCollector(s *Scraper, source *Source) *SourceCollector {
	return &SourceCollector{scraper: s, source: source}
}

// Name identifies the source in logs and run summaries.
func (c *SourceCollector) Name() string {
	return c.source.Name
}

// Collect scrapes the source's trending pages.
func (c *SourceCollector) Collect(ctx context.Context) ([]vendors.Item, error) {
	results, err := c.scraper.Scrape(ctx, c.source)
	if err != nil {
		return nil, err
	}

	items := make([]vendors.Item, 0, len(results))
	for _, r := range results {
		items = append(items, vendors.Item{Product: r.Product, Snapshot: r.Snapshot})
	}
	return items, nil
}
