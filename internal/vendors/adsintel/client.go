// Package adsintel provides a client for the ads-intelligence platform's
// REST API, used when API access is available instead of page scraping.
package adsintel

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/vendors"
)

const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second
	// DefaultPeriodDays is the trend window requested from the API.
	DefaultPeriodDays = 7
	// DefaultLimit is the page size requested from the top-ads endpoint.
	DefaultLimit = 50

	retryCount = 2
	retryWait  = 3 * time.Second
)

// Client fetches top-performing ad products from the ads-intelligence API.
type Client struct {
	http       *resty.Client
	periodDays int
	limit      int
	logger     logger.Interface
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithPeriod sets the trend window in days.
func WithPeriod(days int) Option {
	return func(c *Client) {
		c.periodDays = days
	}
}

// WithLimit sets the number of products requested per fetch.
func WithLimit(limit int) Option {
	return func(c *Client) {
		c.limit = limit
	}
}

// WithTimeout sets the timeout for API requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// NewClient creates a new ads-intelligence API client.
func NewClient(baseURL, apiKey string, log logger.Interface, opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(DefaultTimeout)
	httpClient.SetRetryCount(retryCount)
	httpClient.SetRetryWaitTime(retryWait)
	httpClient.AddRetryCondition(func(r *resty.Response, _ error) bool {
		return r.StatusCode() == http.StatusTooManyRequests ||
			r.StatusCode() >= http.StatusInternalServerError
	})
	if apiKey != "" {
		httpClient.SetHeader("X-Api-Key", apiKey)
	}

	client := &Client{
		http:       httpClient,
		periodDays: DefaultPeriodDays,
		limit:      DefaultLimit,
		logger:     log.WithComponent("adsintel"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "adsintel"
}

// Collect fetches the current top ad products.
func (c *Client) Collect(ctx context.Context) ([]vendors.Item, error) {
	var result topAdsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("period", strconv.Itoa(c.periodDays)).
		SetQueryParam("limit", strconv.Itoa(c.limit)).
		SetQueryParam("order_by", "impressions").
		SetResult(&result).
		Get("/api/v2/top-ads")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vendors.ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: top-ads request returned %d", vendors.ErrUnavailable, resp.StatusCode())
	}

	items := make([]vendors.Item, 0, len(result.Ads))
	for i := range result.Ads {
		item, ok := c.toItem(&result.Ads[i])
		if !ok {
			continue
		}
		items = append(items, item)
	}

	c.logger.Info("Fetched top ads",
		"period_days", c.periodDays,
		"count", len(items),
	)
	return items, nil
}

// toItem converts an ad entry to a collected product. Entries without a
// product name are skipped.
func (c *Client) toItem(ad *adEntry) (vendors.Item, bool) {
	if ad.ProductName == "" {
		return vendors.Item{}, false
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.NewString(),
		Platform:     platformFor(ad.Market),
		Category:     ad.Category,
		NameOriginal: ad.ProductName,
		Status:       domain.ProductStatusNew,
		DetectedAt:   now,
	}
	if ad.ProductURL != "" {
		product.ProductURL = &ad.ProductURL
	}
	if ad.SellerURL != "" {
		product.SellerURL = &ad.SellerURL
	}
	if ad.Price != "" {
		product.Price = &ad.Price
	}
	if ad.FirstSeenDays > 0 {
		age := ad.FirstSeenDays
		product.ListingAgeDays = &age
	}
	if len(ad.Hooks) > 0 {
		hooks := strings.Join(ad.Hooks, " / ")
		product.HooksOriginal = &hooks
	}

	var totalViews, views72h, likes, comments int64
	for _, v := range ad.Videos {
		totalViews += v.Impressions
		likes += v.Likes
		comments += v.Comments
		if now.Sub(v.PublishedAt) <= 72*time.Hour {
			views72h += v.Impressions
		}
		product.Videos = append(product.Videos, domain.TrendingVideo{
			URL:      v.URL,
			Views:    v.Impressions,
			Likes:    v.Likes,
			Comments: v.Comments,
			Hook:     v.Hook,
			Branded:  v.Branded,
		})
	}

	snapshot := &domain.MetricsSnapshot{
		ProductID:  product.ID,
		CapturedAt: now,
		TotalViews: totalViews,
		Views72h:   views72h,
		Likes:      likes,
		Comments:   comments,
	}
	return vendors.Item{Product: product, Snapshot: snapshot}, true
}

// platformFor maps an ads-intelligence market code onto a platform.
func platformFor(market string) domain.Platform {
	switch strings.ToUpper(market) {
	case "US":
		return domain.PlatformTikTokShopUS
	case "CN":
		return domain.PlatformDouyin
	case "GB", "DE", "FR", "ES", "IT":
		return domain.PlatformTikTokShopEU
	default:
		return domain.PlatformAdsIntel
	}
}
