package adsintel

import "time"

// topAdsResponse is the envelope returned by the top-ads endpoint.
type topAdsResponse struct {
	Ads   []adEntry `json:"ads"`
	Total int       `json:"total"`
}

// adEntry is one product-level aggregate in the top-ads response.
type adEntry struct {
	ProductName   string    `json:"product_name"`
	Category      string    `json:"category"`
	Market        string    `json:"market"`
	ProductURL    string    `json:"product_url"`
	SellerURL     string    `json:"seller_url"`
	Price         string    `json:"price"`
	FirstSeenDays int       `json:"first_seen_days"`
	Hooks         []string  `json:"hooks"`
	Videos        []adVideo `json:"videos"`
}

// adVideo is one creative attached to an ad entry.
type adVideo struct {
	URL         string    `json:"url"`
	Impressions int64     `json:"impressions"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Hook        string    `json:"hook"`
	Branded     bool      `json:"branded"`
	PublishedAt time.Time `json:"published_at"`
}
