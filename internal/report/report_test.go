package report_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/report"
)

func testRun() *domain.ScanRun {
	started := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	return &domain.ScanRun{
		ID:            "run-1",
		Status:        domain.RunStatusCompleted,
		Trigger:       domain.RunTriggerSchedule,
		ProductsFound: 40,
		ProductsKept:  2,
		CreatedAt:     started.Add(-time.Minute),
		StartedAt:     &started,
	}
}

func rankedProducts() []*domain.Product {
	fit := 84
	insight := "Strong UGC wave in the comments."
	risks := "Category is saturating."
	price := "$12.99"
	hooks := "wait for it / you need this"
	url := "https://shop.example/p/1"
	age := 9

	top := &domain.Product{
		ID:             "p1",
		Platform:       domain.PlatformTikTokShopUS,
		Category:       "beauty",
		NameOriginal:   "Glow Serum",
		Price:          &price,
		ListingAgeDays: &age,
		HooksOriginal:  &hooks,
		Insight:        &insight,
		Risks:          &risks,
		FitScore:       &fit,
		TrendScore:     86.4,
		Priority:       domain.PriorityA,
		ProductURL:     &url,
		DetectedAt:     time.Date(2026, 8, 29, 6, 1, 0, 0, time.UTC),
		LatestSnapshot: &domain.MetricsSnapshot{
			TotalViews: 2_400_000,
			Views72h:   800_000,
			Likes:      200_000,
			Comments:   12_000,
		},
	}

	translated := "Portable Neck Fan"
	second := &domain.Product{
		ID:             "p2",
		Platform:       domain.PlatformDouyin,
		NameOriginal:   "挂脖风扇",
		NameTranslated: &translated,
		TrendScore:     58.2,
		Priority:       domain.PriorityB,
		DetectedAt:     time.Date(2026, 8, 29, 6, 1, 0, 0, time.UTC),
	}

	return []*domain.Product{top, second}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	gen := report.New(dir, 25, logger.NewNoOp())

	mdPath, csvPath, err := gen.Generate(testRun(), rankedProducts())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "radar-2026-08-29.md"), mdPath)
	assert.Equal(t, filepath.Join(dir, "radar-2026-08-29.csv"), csvPath)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "# Trend Radar Report - 2026-08-29")
	assert.Contains(t, text, "- Products found: 40")
	assert.Contains(t, text, "- Trigger: schedule")
	assert.Contains(t, text, "- Priorities: 1 A / 1 B / 0 C")
	assert.Contains(t, text, "## Priority A - act this week")
	assert.Contains(t, text, "### 1. Glow Serum")
	assert.Contains(t, text, "Trend score: 86.4 | Fit score: 84")
	assert.Contains(t, text, "- Hooks: wait for it / you need this")
	assert.Contains(t, text, "- Why it trends: Strong UGC wave in the comments.")
	assert.Contains(t, text, "- Link: https://shop.example/p/1")
	assert.Contains(t, text, "2.4M", "views are humanized in the ranked table")
	assert.Contains(t, text, "Portable Neck Fan", "translated names are preferred")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per product")
	assert.Equal(t, "priority", rows[0][0])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "86.4", rows[1][1])
	assert.Equal(t, "84", rows[1][2])
	assert.Equal(t, "Glow Serum", rows[1][3])
	assert.Equal(t, "2400000", rows[1][10])
	assert.Equal(t, "挂脖风扇", rows[2][3])
	assert.Equal(t, "Portable Neck Fan", rows[2][4])
	assert.Equal(t, "", rows[2][2], "missing fit score stays empty")
}

func TestGenerate_NoPriorityA(t *testing.T) {
	gen := report.New(t.TempDir(), 25, logger.NewNoOp())

	products := rankedProducts()[1:]
	mdPath, _, err := gen.Generate(testRun(), products)
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "No priority-A products this run.")
}

func TestGenerate_TopNLimitsTable(t *testing.T) {
	gen := report.New(t.TempDir(), 1, logger.NewNoOp())

	mdPath, _, err := gen.Generate(testRun(), rankedProducts())
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	text := string(md)
	assert.Contains(t, text, "## Ranked products (top 1)")
	assert.NotContains(t, strings.Split(text, "## Ranked products")[1], "Portable Neck Fan")
}

func TestLatestPaths(t *testing.T) {
	dir := t.TempDir()
	gen := report.New(dir, 25, logger.NewNoOp())

	t.Run("no reports yet", func(t *testing.T) {
		_, _, err := gen.LatestPaths()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	older := testRun()
	olderStart := time.Date(2026, 8, 22, 6, 0, 0, 0, time.UTC)
	older.StartedAt = &olderStart
	_, _, err := gen.Generate(older, nil)
	require.NoError(t, err)

	_, _, err = gen.Generate(testRun(), rankedProducts())
	require.NoError(t, err)

	mdPath, csvPath, err := gen.LatestPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "radar-2026-08-29.md"), mdPath)
	assert.Equal(t, filepath.Join(dir, "radar-2026-08-29.csv"), csvPath)
}

func TestRenderConsole(t *testing.T) {
	gen := report.New(t.TempDir(), 25, logger.NewNoOp())

	out := gen.RenderConsole(rankedProducts())
	assert.Contains(t, out, "Glow Serum")
	assert.Contains(t, out, "86.4")
	assert.Contains(t, out, "tiktok_shop_us")
}
