package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/domain"
)

func TestSnapshotEngagementRate(t *testing.T) {
	t.Run("likes and comments", func(t *testing.T) {
		s := &domain.MetricsSnapshot{TotalViews: 100_000, Likes: 9_000, Comments: 800}
		er := s.EngagementRate()
		require.NotNil(t, er)
		assert.InDelta(t, 9.8, *er, 0.0001)
	})

	t.Run("comments doubled when likes hidden", func(t *testing.T) {
		s := &domain.MetricsSnapshot{TotalViews: 100_000, Comments: 800}
		er := s.EngagementRate()
		require.NotNil(t, er)
		assert.InDelta(t, 1.6, *er, 0.0001)
	})

	t.Run("no views", func(t *testing.T) {
		s := &domain.MetricsSnapshot{Likes: 100}
		assert.Nil(t, s.EngagementRate())
	})

	t.Run("no engagement", func(t *testing.T) {
		s := &domain.MetricsSnapshot{TotalViews: 1_000}
		er := s.EngagementRate()
		require.NotNil(t, er)
		assert.Zero(t, *er)
	})
}

func TestVideoEngagementRate(t *testing.T) {
	v := &domain.TrendingVideo{Views: 50_000, Likes: 4_000, Comments: 500}
	assert.InDelta(t, 9.0, v.EngagementRate(), 0.0001)

	hidden := &domain.TrendingVideo{Views: 50_000, Comments: 500}
	assert.InDelta(t, 2.0, hidden.EngagementRate(), 0.0001)

	noViews := &domain.TrendingVideo{Likes: 100}
	assert.Zero(t, noViews.EngagementRate())
}
