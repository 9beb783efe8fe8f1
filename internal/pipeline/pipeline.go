// Package pipeline orchestrates a scan run: collect, dedupe, enrich,
// score, persist, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/metrics"
	"github.com/jonesrussell/trendradar/internal/trend"
	"github.com/jonesrussell/trendradar/internal/urlnorm"
	"github.com/jonesrussell/trendradar/internal/vendors"
	"github.com/jonesrussell/trendradar/internal/worker"
)

// ErrNoProducts is returned when every collector came back empty.
var ErrNoProducts = errors.New("no products collected")

// ProductStore is the product persistence surface the pipeline needs.
type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	FindExisting(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
}

// SnapshotStore is the metrics-history surface the pipeline needs.
type SnapshotStore interface {
	Append(ctx context.Context, s *domain.MetricsSnapshot) error
}

// RunStore is the scan-run bookkeeping surface the pipeline needs.
type RunStore interface {
	Create(ctx context.Context, run *domain.ScanRun) error
	Update(ctx context.Context, run *domain.ScanRun) error
}

// Enricher adds translations and brand-fit analysis to products.
type Enricher interface {
	TranslateProduct(ctx context.Context, p *domain.Product) error
	AnalyzeProduct(ctx context.Context, p *domain.Product) error
}

// ReportWriter renders the run report to disk.
type ReportWriter interface {
	Generate(run *domain.ScanRun, products []*domain.Product) (mdPath, csvPath string, err error)
}

// Notifier sends run outcome alerts.
type Notifier interface {
	NotifyRunCompleted(run *domain.ScanRun, priorityA int) error
	NotifyRunFailed(run *domain.ScanRun) error
}

// Pipeline runs the scan end to end.
type Pipeline struct {
	collectors []vendors.Collector
	enricher   Enricher
	products   ProductStore
	snapshots  SnapshotStore
	runs       RunStore
	reports    ReportWriter
	notifier   Notifier
	metrics    *metrics.Metrics
	cfg        *config.RadarConfig
	logger     logger.Interface
}

// Params bundles the pipeline dependencies.
type Params struct {
	Collectors []vendors.Collector
	Enricher   Enricher
	Products   ProductStore
	Snapshots  SnapshotStore
	Runs       RunStore
	Reports    ReportWriter
	Notifier   Notifier
	Metrics    *metrics.Metrics
	Config     *config.RadarConfig
	Logger     logger.Interface
}

// New creates a pipeline. Enricher, Reports and Notifier may be nil.
func New(p Params) *Pipeline {
	m := p.Metrics
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Pipeline{
		collectors: p.Collectors,
		enricher:   p.Enricher,
		products:   p.Products,
		snapshots:  p.Snapshots,
		runs:       p.Runs,
		reports:    p.Reports,
		notifier:   p.Notifier,
		metrics:    m,
		cfg:        p.Config,
		logger:     p.Logger.WithComponent("pipeline"),
	}
}

// Run executes one scan and records its outcome. A run fails only when no
// collector returns anything; individual collector failures are logged
// and skipped.
func (pl *Pipeline) Run(ctx context.Context, trigger string) (*domain.ScanRun, error) {
	pl.metrics.Reset()

	run := &domain.ScanRun{
		ID:      uuid.NewString(),
		Status:  domain.RunStatusPending,
		Trigger: trigger,
	}
	if err := pl.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create scan run: %w", err)
	}

	now := time.Now().UTC()
	run.Status = domain.RunStatusProcessing
	run.StartedAt = &now
	if err := pl.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start scan run: %w", err)
	}

	items, err := pl.collect(ctx)
	if err != nil {
		return run, pl.fail(ctx, run, err)
	}
	run.ProductsFound = len(items)

	normalizeURLs(items)
	items = dedupe(items)
	pl.logger.Info("Products collected",
		"run", run.ID,
		"found", run.ProductsFound,
		"unique", len(items),
	)

	pl.enrich(ctx, items)
	scoreItems(items)
	items = pl.cap(items)
	run.ProductsKept = len(items)

	if pl.cfg.MinProducts > 0 && len(items) < pl.cfg.MinProducts {
		pl.logger.Warn("Run below minimum product count",
			"run", run.ID,
			"kept", len(items),
			"min", pl.cfg.MinProducts,
		)
	}

	products, err := pl.persist(ctx, items)
	if err != nil {
		return run, pl.fail(ctx, run, err)
	}

	if pl.reports != nil {
		mdPath, _, reportErr := pl.reports.Generate(run, products)
		if reportErr != nil {
			pl.logger.Error("Failed to write report", "run", run.ID, "error", reportErr)
		} else {
			run.ReportPath = &mdPath
		}
	}

	done := time.Now().UTC()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &done
	if err := pl.runs.Update(ctx, run); err != nil {
		return run, fmt.Errorf("failed to complete scan run: %w", err)
	}

	pl.logger.Info("Scan completed",
		"run", run.ID,
		"kept", run.ProductsKept,
		"duration", done.Sub(now),
	)

	if pl.notifier != nil {
		priorityA := 0
		for _, p := range products {
			if p.Priority == domain.PriorityA {
				priorityA++
			}
		}
		if notifyErr := pl.notifier.NotifyRunCompleted(run, priorityA); notifyErr != nil {
			pl.logger.Error("Failed to send completion alert", "run", run.ID, "error", notifyErr)
		}
	}

	return run, nil
}

// collect gathers items from every collector, tolerating individual
// failures.
func (pl *Pipeline) collect(ctx context.Context) ([]vendors.Item, error) {
	var all []vendors.Item
	failures := 0
	for _, c := range pl.collectors {
		items, err := c.Collect(ctx)
		if err != nil {
			failures++
			pl.logger.Error("Collector failed",
				"collector", c.Name(),
				"error", err,
			)
			continue
		}
		pl.logger.Info("Collector finished",
			"collector", c.Name(),
			"products", len(items),
		)
		all = append(all, items...)
	}

	if len(all) == 0 {
		if failures == len(pl.collectors) && failures > 0 {
			return nil, fmt.Errorf("%w: all %d collectors failed", ErrNoProducts, failures)
		}
		return nil, ErrNoProducts
	}
	return all, nil
}

// enrich translates and analyzes products through the worker pool.
// Enrichment failures leave the product with originals only.
func (pl *Pipeline) enrich(ctx context.Context, items []vendors.Item) {
	if pl.enricher == nil {
		return
	}

	products := make([]*domain.Product, len(items))
	for i, item := range items {
		products[i] = item.Product
	}

	pool := worker.NewPool(worker.DefaultPoolSize, pl.logger)
	stats := pool.Process(ctx, products, func(ctx context.Context, p *domain.Product) error {
		if err := pl.enricher.TranslateProduct(ctx, p); err != nil {
			pl.logger.Warn("Translation failed",
				"product", p.NameOriginal,
				"error", err,
			)
		}
		return pl.enricher.AnalyzeProduct(ctx, p)
	})

	for range stats.Succeeded {
		pl.metrics.UpdateMetrics(true)
	}
	for range stats.Failed {
		pl.metrics.UpdateMetrics(false)
	}
}

// cap sorts by trend score (fit score as tiebreak) and keeps the top
// TargetProducts.
func (pl *Pipeline) cap(items []vendors.Item) []vendors.Item {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Product, items[j].Product
		if a.TrendScore != b.TrendScore {
			return a.TrendScore > b.TrendScore
		}
		return fitOrZero(a) > fitOrZero(b)
	})
	if pl.cfg.TargetProducts > 0 && len(items) > pl.cfg.TargetProducts {
		items = items[:pl.cfg.TargetProducts]
	}
	return items
}

// persist upserts products and appends their snapshots, returning the
// stored products in ranked order.
func (pl *Pipeline) persist(ctx context.Context, items []vendors.Item) ([]*domain.Product, error) {
	stored := make([]*domain.Product, 0, len(items))
	for _, item := range items {
		p := item.Product

		existing, err := pl.products.FindExisting(ctx, p)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Keep the earliest identity and detection time; refresh
			// everything derived from this scan.
			p.ID = existing.ID
			p.DetectedAt = existing.DetectedAt
			p.CreatedAt = existing.CreatedAt
			p.Status = existing.Status
			if err = pl.products.Update(ctx, p); err != nil {
				return nil, err
			}
			pl.metrics.RecordProduct(false)
		} else {
			if err = pl.products.Create(ctx, p); err != nil {
				return nil, err
			}
			pl.metrics.RecordProduct(true)
		}

		if item.Snapshot != nil {
			item.Snapshot.ProductID = p.ID
			if err = pl.snapshots.Append(ctx, item.Snapshot); err != nil {
				return nil, err
			}
			p.LatestSnapshot = item.Snapshot
		}

		stored = append(stored, p)
	}
	return stored, nil
}

// fail marks the run failed and sends the failure alert.
func (pl *Pipeline) fail(ctx context.Context, run *domain.ScanRun, cause error) error {
	now := time.Now().UTC()
	msg := cause.Error()
	run.Status = domain.RunStatusFailed
	run.ErrorMessage = &msg
	run.CompletedAt = &now
	if err := pl.runs.Update(ctx, run); err != nil {
		pl.logger.Error("Failed to record run failure", "run", run.ID, "error", err)
	}

	if pl.notifier != nil {
		if notifyErr := pl.notifier.NotifyRunFailed(run); notifyErr != nil {
			pl.logger.Error("Failed to send failure alert", "run", run.ID, "error", notifyErr)
		}
	}
	return cause
}

// normalizeURLs canonicalizes product and seller links so URL-based
// dedupe is stable across differently shared links.
func normalizeURLs(items []vendors.Item) {
	for _, item := range items {
		p := item.Product
		if p.ProductURL != nil {
			if n, err := urlnorm.Normalize(*p.ProductURL); err == nil {
				p.ProductURL = &n
			}
		}
		if p.SellerURL != nil {
			if n, err := urlnorm.Normalize(*p.SellerURL); err == nil {
				p.SellerURL = &n
			}
		}
	}
}

// dedupe collapses items sharing a dedupe key, keeping the first
// occurrence, folding later video evidence into it and keeping whichever
// metrics snapshot is fresher.
func dedupe(items []vendors.Item) []vendors.Item {
	seen := make(map[string]int, len(items))
	out := make([]vendors.Item, 0, len(items))
	for _, item := range items {
		key := item.Product.DedupeKey()
		if idx, ok := seen[key]; ok {
			kept := out[idx].Product
			kept.Videos = append(kept.Videos, item.Product.Videos...)
			if fresherSnapshot(item.Snapshot, out[idx].Snapshot) {
				out[idx].Snapshot = item.Snapshot
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, item)
	}
	return out
}

// fresherSnapshot reports whether candidate carries newer metrics than
// current, by capture time first and total views as the tiebreak.
func fresherSnapshot(candidate, current *domain.MetricsSnapshot) bool {
	if candidate == nil {
		return false
	}
	if current == nil {
		return true
	}
	if candidate.CapturedAt.After(current.CapturedAt) {
		return true
	}
	if current.CapturedAt.After(candidate.CapturedAt) {
		return false
	}
	return candidate.TotalViews > current.TotalViews
}

// scoreItems runs batch trend scoring over the collected items.
func scoreItems(items []vendors.Item) {
	products := make([]*domain.Product, len(items))
	snapshots := make([]*domain.MetricsSnapshot, len(items))
	for i, item := range items {
		products[i] = item.Product
		snapshots[i] = item.Snapshot
	}
	trend.ScoreBatch(products, snapshots)
}

func fitOrZero(p *domain.Product) int {
	if p.FitScore == nil {
		return 0
	}
	return *p.FitScore
}
