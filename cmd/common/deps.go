// Package common wires the shared dependencies used by the CLI commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/trendradar/internal/analyzer"
	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/metrics"
	"github.com/jonesrussell/trendradar/internal/notify"
	"github.com/jonesrussell/trendradar/internal/pipeline"
	"github.com/jonesrussell/trendradar/internal/report"
	"github.com/jonesrussell/trendradar/internal/scraper"
	"github.com/jonesrussell/trendradar/internal/storage"
	"github.com/jonesrussell/trendradar/internal/vendors"
	"github.com/jonesrussell/trendradar/internal/vendors/adsintel"
	"github.com/jonesrussell/trendradar/internal/vendors/tiktok"
)

// Deps holds the dependencies shared by the CLI commands.
type Deps struct {
	Config    *config.Config
	Logger    logger.Interface
	DB        *sqlx.DB
	Products  *storage.ProductRepository
	Snapshots *storage.SnapshotRepository
	Runs      *storage.RunRepository
	Reports   *report.Generator
	Mailer    *notify.Mailer
	Metrics   *metrics.Metrics
}

// Build loads config, opens the database and constructs the repositories.
func Build() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := storage.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Products:  storage.NewProductRepository(db),
		Snapshots: storage.NewSnapshotRepository(db),
		Runs:      storage.NewRunRepository(db),
		Reports:   report.New(cfg.Report.OutputDir, cfg.Report.TopN, log),
		Mailer:    notify.New(&cfg.Alerts, log),
		Metrics:   metrics.NewMetrics(),
	}, nil
}

// Close releases held resources.
func (d *Deps) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// BuildCollectors assembles the enabled collectors: scraped sources plus
// API-backed vendors.
func (d *Deps) BuildCollectors() ([]vendors.Collector, error) {
	var collectors []vendors.Collector

	if d.Config.Scraper.SourceFile != "" {
		sources, err := scraper.LoadSources(d.Config.Scraper.SourceFile)
		if err != nil {
			d.Logger.Warn("Failed to load scrape sources, continuing without them",
				"file", d.Config.Scraper.SourceFile,
				"error", err,
			)
		} else {
			engine := scraper.New(&d.Config.Scraper, d.Logger, d.Metrics)
			for i := range sources {
				if !sources[i].Enabled {
					continue
				}
				collectors = append(collectors, scraper.NewSourceCollector(engine, &sources[i]))
			}
		}
	}

	if tk := d.Config.Vendors.TikTok; tk.Enabled {
		opts := []tiktok.Option{}
		if tk.Region != "" {
			opts = append(opts, tiktok.WithRegion(tk.Region))
		}
		if tk.Timeout > 0 {
			opts = append(opts, tiktok.WithTimeout(tk.Timeout))
		}
		collectors = append(collectors, tiktok.NewClient(tk.BaseURL, tk.APIKey, d.Logger, opts...))
	}

	if ai := d.Config.Vendors.AdsIntel; ai.Enabled {
		opts := []adsintel.Option{}
		if ai.Timeout > 0 {
			opts = append(opts, adsintel.WithTimeout(ai.Timeout))
		}
		collectors = append(collectors, adsintel.NewClient(ai.BaseURL, ai.APIKey, d.Logger, opts...))
	}

	if len(collectors) == 0 {
		return nil, fmt.Errorf("no collectors configured: enable a vendor or provide a source file")
	}
	return collectors, nil
}

// BuildAnalyzer constructs the LLM enricher, or nil when disabled.
func (d *Deps) BuildAnalyzer() *analyzer.Analyzer {
	ac := d.Config.Analyzer
	if !ac.Enabled {
		return nil
	}

	opts := []analyzer.Option{}
	if ac.Model != "" {
		opts = append(opts, analyzer.WithModel(ac.Model))
	}
	if ac.EmbeddingModel != "" {
		opts = append(opts, analyzer.WithEmbeddingModel(ac.EmbeddingModel))
	}
	if ac.Timeout > 0 {
		opts = append(opts, analyzer.WithTimeout(ac.Timeout))
	}

	client := analyzer.NewClient(ac.BaseURL, ac.APIKey, d.Logger, opts...)
	return analyzer.New(client, ac.BrandProfile, ac.TargetLanguage, d.Logger)
}

// BuildPipeline assembles the full scan pipeline.
func (d *Deps) BuildPipeline(_ context.Context) (*pipeline.Pipeline, error) {
	collectors, err := d.BuildCollectors()
	if err != nil {
		return nil, err
	}

	var enricher pipeline.Enricher
	if a := d.BuildAnalyzer(); a != nil {
		enricher = a
	}

	return pipeline.New(pipeline.Params{
		Collectors: collectors,
		Enricher:   enricher,
		Products:   d.Products,
		Snapshots:  d.Snapshots,
		Runs:       d.Runs,
		Reports:    d.Reports,
		Notifier:   d.Mailer,
		Metrics:    d.Metrics,
		Config:     &d.Config.Radar,
		Logger:     d.Logger,
	}), nil
}
