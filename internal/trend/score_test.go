package trend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/trend"
)

func intPtr(v int) *int { return &v }

func TestImpulse72h(t *testing.T) {
	tests := []struct {
		name       string
		views72h   int64
		totalViews int64
		age        *int
		want       float64
	}{
		{"no views", 0, 1000, nil, 0},
		{"no total", 500, 0, nil, 0},
		{"half of views recent", 500, 1000, nil, 50},
		{"fresh listing gets boost", 500, 1000, intPtr(7), 60},
		{"old listing no boost", 500, 1000, intPtr(30), 50},
		{"clamped at 100", 1000, 1000, intPtr(1), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trend.Impulse72h(tt.views72h, tt.totalViews, tt.age)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestUGCShare(t *testing.T) {
	assert.Zero(t, trend.UGCShare(0, 0))
	assert.InDelta(t, 100.0, trend.UGCShare(10, 0), 0.01)
	assert.InDelta(t, 70.0, trend.UGCShare(10, 3), 0.01)
	assert.Zero(t, trend.UGCShare(5, 5))
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		name string
		age  *int
		want float64
	}{
		{"unknown age is neutral", nil, 50},
		{"brand new", intPtr(2), 100},
		{"one week", intPtr(7), 90},
		{"two weeks", intPtr(14), 75},
		{"one month", intPtr(30), 50},
		{"two months", intPtr(60), 25},
		{"stale", intPtr(120), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, trend.RecencyScore(tt.age), 0.01)
		})
	}
}

func TestEaseComposite(t *testing.T) {
	assert.InDelta(t, 50.0, trend.EaseComposite(nil, nil), 0.01)
	assert.InDelta(t, 80.0, trend.EaseComposite(intPtr(8), intPtr(8)), 0.01)
	// A missing half defaults to the midpoint.
	assert.InDelta(t, 65.0, trend.EaseComposite(intPtr(8), nil), 0.01)
}

func TestNormalizeER(t *testing.T) {
	t.Run("small batch is neutral", func(t *testing.T) {
		assert.InDelta(t, 50.0, trend.NormalizeER(5, []float64{5}), 0.01)
	})

	t.Run("zero spread is neutral", func(t *testing.T) {
		assert.InDelta(t, 50.0, trend.NormalizeER(5, []float64{5, 5, 5}), 0.01)
	})

	t.Run("mean maps to midpoint", func(t *testing.T) {
		assert.InDelta(t, 50.0, trend.NormalizeER(4, []float64{2, 4, 6}), 0.01)
	})

	t.Run("above mean scores above midpoint", func(t *testing.T) {
		got := trend.NormalizeER(6, []float64{2, 4, 6})
		assert.Greater(t, got, 50.0)
		assert.LessOrEqual(t, got, 100.0)
	})

	t.Run("extreme outlier is clamped", func(t *testing.T) {
		got := trend.NormalizeER(1000, []float64{2, 4, 6})
		assert.InDelta(t, 100.0, got, 0.01)
	})
}

func TestScore(t *testing.T) {
	c := trend.Components{
		Impulse72h: 80,
		UGCShare:   60,
		ERz:        50,
		Recency:    90,
		Ease:       70,
	}

	// 0.35*80 + 0.25*60 + 0.15*50 + 0.15*90 + 0.10*70 = 71
	assert.InDelta(t, 71.0, trend.Score(c, false), 0.01)

	// 0.45*80 + 0.30*60 + 0.10*50 + 0.10*90 + 0.05*70 = 71.5
	assert.InDelta(t, 71.5, trend.Score(c, true), 0.01)
}

func TestScoreClamped(t *testing.T) {
	assert.Zero(t, trend.Score(trend.Components{}, false))

	full := trend.Components{Impulse72h: 100, UGCShare: 100, ERz: 100, Recency: 100, Ease: 100}
	assert.InDelta(t, 100.0, trend.Score(full, false), 0.01)
}

func TestScoreBatch(t *testing.T) {
	age := 5
	products := []*domain.Product{
		{Platform: domain.PlatformTikTokShopUS, NameOriginal: "glow serum", ListingAgeDays: &age},
		{Platform: domain.PlatformTikTokShopUS, NameOriginal: "mud mask", ListingAgeDays: &age},
		{Platform: domain.PlatformDouyin, NameOriginal: "lip stain", ListingAgeDays: &age},
	}
	snapshots := []*domain.MetricsSnapshot{
		{TotalViews: 100000, Views72h: 80000, Likes: 9000, Comments: 800},
		{TotalViews: 50000, Views72h: 5000, Likes: 500, Comments: 40},
		{TotalViews: 200000, Views72h: 150000, Likes: 30000, Comments: 2000},
	}

	trend.ScoreBatch(products, snapshots)

	for _, p := range products {
		assert.NotZero(t, p.TrendScore, p.NameOriginal)
		assert.NotEmpty(t, p.Priority, p.NameOriginal)
		assert.Equal(t, domain.PriorityForScore(p.TrendScore), p.Priority)
	}

	// The front-loaded products outrank the stalled one.
	assert.Greater(t, products[0].TrendScore, products[1].TrendScore)
	assert.Greater(t, products[2].TrendScore, products[1].TrendScore)
}

func TestScoreBatchMissingSnapshot(t *testing.T) {
	products := []*domain.Product{
		{Platform: domain.PlatformTikTok, NameOriginal: "no data"},
	}

	trend.ScoreBatch(products, []*domain.MetricsSnapshot{nil})

	assert.NotZero(t, products[0].TrendScore)
	assert.Equal(t, domain.PriorityForScore(products[0].TrendScore), products[0].Priority)
}
