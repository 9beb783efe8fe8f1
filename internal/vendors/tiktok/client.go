// Package tiktok provides a client for a TikTok creative-center style
// trending products API.
package tiktok

import (
	"context"
	"fmt"
	"net/http"
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
	// DefaultRegion is used when no region is configured.
	DefaultRegion = "US"
	// DefaultLimit is the page size requested from the trending endpoint.
	DefaultLimit = 50

	retryCount   = 2
	retryWait    = 2 * time.Second
	retryMaxWait = 10 * time.Second
)

// Client fetches trending products from the TikTok API.
type Client struct {
	http   *resty.Client
	region string
	limit  int
	logger logger.Interface
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithRegion sets the marketplace region queried for trends.
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
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

// NewClient creates a new TikTok trending client.
func NewClient(baseURL, apiKey string, log logger.Interface, opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(DefaultTimeout)
	httpClient.SetRetryCount(retryCount)
	httpClient.SetRetryWaitTime(retryWait)
	httpClient.SetRetryMaxWaitTime(retryMaxWait)
	httpClient.AddRetryCondition(func(r *resty.Response, _ error) bool {
		return r.StatusCode() == http.StatusTooManyRequests ||
			r.StatusCode() >= http.StatusInternalServerError
	})
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}

	client := &Client{
		http:   httpClient,
		region: DefaultRegion,
		limit:  DefaultLimit,
		logger: log.WithComponent("tiktok"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "tiktok"
}

// Collect fetches the current trending products for the configured region.
func (c *Client) Collect(ctx context.Context) ([]vendors.Item, error) {
	var result trendingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("region", c.region).
		SetQueryParam("limit", fmt.Sprintf("%d", c.limit)).
		SetResult(&result).
		Get("/api/v1/trending/products")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vendors.ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: trending request returned %d", vendors.ErrUnavailable, resp.StatusCode())
	}

	items := make([]vendors.Item, 0, len(result.Products))
	for i := range result.Products {
		items = append(items, c.toItem(&result.Products[i]))
	}

	c.logger.Info("Fetched trending products",
		"region", c.region,
		"count", len(items),
	)
	return items, nil
}

func (c *Client) toItem(p *trendingProduct) vendors.Item {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.NewString(),
		Platform:     c.platform(),
		Category:     p.Category,
		NameOriginal: p.Name,
		Status:       domain.ProductStatusNew,
		DetectedAt:   now,
	}
	if p.SKU != "" {
		product.SKU = &p.SKU
	}
	if p.URL != "" {
		product.ProductURL = &p.URL
	}
	if p.SellerURL != "" {
		product.SellerURL = &p.SellerURL
	}
	if p.Price != "" {
		product.Price = &p.Price
	}
	if p.ListingAgeDays > 0 {
		age := p.ListingAgeDays
		product.ListingAgeDays = &age
	}

	for _, v := range p.Videos {
		product.Videos = append(product.Videos, domain.TrendingVideo{
			URL:      v.URL,
			Views:    v.Views,
			Likes:    v.Likes,
			Comments: v.Comments,
			Hook:     v.Hook,
		})
	}

	snapshot := &domain.MetricsSnapshot{
		ProductID:  product.ID,
		CapturedAt: now,
		TotalViews: p.Metrics.TotalViews,
		Views24h:   p.Metrics.Views24h,
		Views72h:   p.Metrics.Views72h,
		Likes:      p.Metrics.Likes,
		Comments:   p.Metrics.Comments,
	}
	return vendors.Item{Product: product, Snapshot: snapshot}
}

// platform maps the configured region onto a marketplace platform.
func (c *Client) platform() domain.Platform {
	switch c.region {
	case "US":
		return domain.PlatformTikTokShopUS
	case "CN":
		return domain.PlatformDouyin
	case "GB", "DE", "FR", "ES", "IT", "EU":
		return domain.PlatformTikTokShopEU
	default:
		return domain.PlatformTikTok
	}
}
