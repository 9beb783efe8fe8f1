// Package report renders ranked product reports as markdown, CSV and
// console tables.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// DefaultTopN limits the ranked markdown table.
	DefaultTopN = 25
)

// Generator writes scan reports to the configured output directory.
type Generator struct {
	outputDir string
	topN      int
	logger    logger.Interface
}

// New creates a report generator.
func New(outputDir string, topN int, log logger.Interface) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Generator{
		outputDir: outputDir,
		topN:      topN,
		logger:    log.WithComponent("report"),
	}
}

// Generate writes the markdown and CSV reports for a completed run and
// returns their paths.
func (g *Generator) Generate(run *domain.ScanRun, products []*domain.Product) (mdPath, csvPath string, err error) {
	if mkErr := os.MkdirAll(g.outputDir, dirPerm); mkErr != nil {
		return "", "", fmt.Errorf("failed to create report directory: %w", mkErr)
	}

	runTime := run.CreatedAt
	if run.StartedAt != nil {
		runTime = *run.StartedAt
	}
	stamp := runTime.UTC().Format("2006-01-02")
	mdPath = filepath.Join(g.outputDir, fmt.Sprintf("radar-%s.md", stamp))
	csvPath = filepath.Join(g.outputDir, fmt.Sprintf("radar-%s.csv", stamp))

	if err = g.writeMarkdown(mdPath, run, products); err != nil {
		return "", "", err
	}
	if err = g.writeCSV(csvPath, products); err != nil {
		return "", "", err
	}

	g.logger.Info("Report written",
		"markdown", mdPath,
		"csv", csvPath,
		"products", len(products),
	)
	return mdPath, csvPath, nil
}

// LatestPaths returns the most recent report file paths, or an error when
// no report exists yet.
func (g *Generator) LatestPaths() (mdPath, csvPath string, err error) {
	entries, err := os.ReadDir(g.outputDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read report directory: %w", err)
	}

	var latest string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".md" {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", "", os.ErrNotExist
	}

	mdPath = filepath.Join(g.outputDir, latest)
	csvPath = mdPath[:len(mdPath)-len(".md")] + ".csv"
	if _, statErr := os.Stat(csvPath); statErr != nil {
		csvPath = ""
	}
	return mdPath, csvPath, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
