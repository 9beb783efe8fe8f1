package adsintel_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/vendors"
	"github.com/jonesrussell/trendradar/internal/vendors/adsintel"
)

func topAdsBody(now time.Time) string {
	fresh := now.Add(-24 * time.Hour).Format(time.RFC3339)
	stale := now.Add(-30 * 24 * time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"total": 2,
		"ads": [
			{
				"product_name": "Glow Serum",
				"category": "beauty",
				"market": "us",
				"product_url": "https://shop.example/p/1",
				"price": "$12.99",
				"first_seen_days": 9,
				"hooks": ["wait for it", "you need this"],
				"videos": [
					{"url": "https://t.example/v/1", "impressions": 800000, "likes": 50000, "published_at": %q},
					{"url": "https://t.example/v/2", "impressions": 1600000, "likes": 90000, "branded": true, "published_at": %q}
				]
			},
			{"product_name": "", "market": "us"}
		]
	}`, fresh, stale)
}

func TestCollect(t *testing.T) {
	now := time.Now().UTC()
	var gotKey, gotPeriod, gotOrder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/top-ads", r.URL.Path)
		gotKey = r.Header.Get("X-Api-Key")
		gotPeriod = r.URL.Query().Get("period")
		gotOrder = r.URL.Query().Get("order_by")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(topAdsBody(now)))
	}))
	defer srv.Close()

	client := adsintel.NewClient(srv.URL, "key-123", logger.NewNoOp(), adsintel.WithPeriod(3))
	items, err := client.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "3", gotPeriod)
	assert.Equal(t, "impressions", gotOrder)

	require.Len(t, items, 1, "nameless entries are skipped")
	p := items[0].Product
	assert.Equal(t, "Glow Serum", p.NameOriginal)
	assert.Equal(t, domain.PlatformTikTokShopUS, p.Platform, "market codes are case-insensitive")
	require.NotNil(t, p.HooksOriginal)
	assert.Equal(t, "wait for it / you need this", *p.HooksOriginal)
	require.Len(t, p.Videos, 2)
	assert.True(t, p.Videos[1].Branded)

	snap := items[0].Snapshot
	require.NotNil(t, snap)
	assert.Equal(t, int64(2_400_000), snap.TotalViews)
	assert.Equal(t, int64(800_000), snap.Views72h, "only recently published impressions count")
	assert.Equal(t, int64(140_000), snap.Likes)
}

func TestCollect_MarketMapping(t *testing.T) {
	var market string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"ads": []map[string]any{{"product_name": "x", "market": market}},
		})
	}))
	defer srv.Close()

	cases := []struct {
		market string
		want   domain.Platform
	}{
		{"CN", domain.PlatformDouyin},
		{"fr", domain.PlatformTikTokShopEU},
		{"XX", domain.PlatformAdsIntel},
	}

	for _, c := range cases {
		t.Run(c.market, func(t *testing.T) {
			market = c.market
			client := adsintel.NewClient(srv.URL, "", logger.NewNoOp())
			items, err := client.Collect(context.Background())
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, c.want, items[0].Product.Platform)
		})
	}
}

func TestCollect_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := adsintel.NewClient(srv.URL, "bad-key", logger.NewNoOp())
	_, err := client.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, vendors.ErrUnavailable)
	assert.Contains(t, err.Error(), "403")
}
