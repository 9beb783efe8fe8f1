package tiktok

// trendingResponse is the envelope returned by the trending products
// endpoint.
type trendingResponse struct {
	Products []trendingProduct `json:"products"`
	Total    int               `json:"total"`
	Region   string            `json:"region"`
}

// trendingProduct is one product entry in the trending response.
type trendingProduct struct {
	Name           string           `json:"name"`
	SKU            string           `json:"sku"`
	Category       string           `json:"category"`
	URL            string           `json:"url"`
	SellerURL      string           `json:"seller_url"`
	Price          string           `json:"price"`
	ListingAgeDays int              `json:"listing_age_days"`
	Metrics        trendingMetrics  `json:"metrics"`
	Videos         []trendingVideo  `json:"videos"`
}

// trendingMetrics carries the aggregate view and engagement counts.
type trendingMetrics struct {
	TotalViews int64 `json:"total_views"`
	Views24h   int64 `json:"views_24h"`
	Views72h   int64 `json:"views_72h"`
	Likes      int64 `json:"likes"`
	Comments   int64 `json:"comments"`
}

// trendingVideo is one creative attached to a product.
type trendingVideo struct {
	URL      string `json:"url"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Hook     string `json:"hook"`
}
