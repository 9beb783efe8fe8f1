// Package domain provides domain models used across the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies where a trending product was discovered.
type Platform string

const (
	// PlatformTikTok represents organic TikTok content.
	PlatformTikTok Platform = "tiktok"
	// PlatformTikTokShopUS represents the US TikTok Shop.
	PlatformTikTokShopUS Platform = "tiktok_shop_us"
	// PlatformTikTokShopEU represents the EU TikTok Shop.
	PlatformTikTokShopEU Platform = "tiktok_shop_eu"
	// PlatformDouyin represents Douyin (scored with boosted weights).
	PlatformDouyin Platform = "douyin"
	// PlatformAdsIntel represents products discovered via the ads-intelligence site.
	PlatformAdsIntel Platform = "adsintel"
)

// Boosted reports whether the platform uses the boosted trend-score weights.
func (p Platform) Boosted() bool {
	return p == PlatformDouyin
}

// Priority buckets products by opportunity.
type Priority string

const (
	// PriorityA marks products worth immediate follow-up.
	PriorityA Priority = "A"
	// PriorityB marks products worth watching.
	PriorityB Priority = "B"
	// PriorityC marks low-opportunity products.
	PriorityC Priority = "C"
)

// Priority thresholds on the 0-100 trend score.
const (
	priorityAThreshold = 75
	priorityCThreshold = 45
)

// PriorityForScore maps a trend score to a priority bucket.
func PriorityForScore(trendScore float64) Priority {
	switch {
	case trendScore >= priorityAThreshold:
		return PriorityA
	case trendScore < priorityCThreshold:
		return PriorityC
	default:
		return PriorityB
	}
}

// Product statuses.
const (
	ProductStatusNew      = "new"
	ProductStatusReviewed = "reviewed"
	ProductStatusRejected = "rejected"
	ProductStatusSampled  = "sampled"
)

// Product is a trending product surfaced by a scan.
type Product struct {
	ID             string   `json:"id" db:"id"`
	Platform       Platform `json:"platform" db:"platform"`
	Category       string   `json:"category" db:"category"`
	NameOriginal   string   `json:"name_original" db:"name_original"`
	NameTranslated *string  `json:"name_translated,omitempty" db:"name_translated"`
	SKU            *string  `json:"sku,omitempty" db:"sku"`
	ProductURL     *string  `json:"product_url,omitempty" db:"product_url"`
	SellerURL      *string  `json:"seller_url,omitempty" db:"seller_url"`
	Price          *string  `json:"price,omitempty" db:"price"`

	ListingAgeDays *int `json:"listing_age_days,omitempty" db:"listing_age_days"`

	// Creative evidence extracted from top-performing videos.
	HooksOriginal    *string `json:"hooks_original,omitempty" db:"hooks_original"`
	HooksTranslated  *string `json:"hooks_translated,omitempty" db:"hooks_translated"`
	OffersOriginal   *string `json:"offers_original,omitempty" db:"offers_original"`
	OffersTranslated *string `json:"offers_translated,omitempty" db:"offers_translated"`

	// LLM analysis output.
	Insight         *string `json:"insight,omitempty" db:"insight"`
	Risks           *string `json:"risks,omitempty" db:"risks"`
	Reproducibility *int    `json:"reproducibility,omitempty" db:"reproducibility"`
	SamplingEase    *int    `json:"sampling_ease,omitempty" db:"sampling_ease"`
	FitScore        *int    `json:"fit_score,omitempty" db:"fit_score"`

	TrendScore float64  `json:"trend_score" db:"trend_score"`
	Priority   Priority `json:"priority" db:"priority"`
	Status     string   `json:"status" db:"status"`

	DetectedAt time.Time `json:"detected_at" db:"detected_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Videos are the supporting trending videos, not persisted on the
	// products row.
	Videos []TrendingVideo `json:"videos,omitempty" db:"-"`

	// LatestSnapshot is the newest metrics-history row, attached when a
	// product is loaded or scored. Not persisted on the products row.
	LatestSnapshot *MetricsSnapshot `json:"latest_snapshot,omitempty" db:"-"`
}

// DedupeKey returns the identity used to collapse duplicate discoveries:
// name+SKU when a SKU is known, otherwise the product URL, otherwise
// name+platform.
func (p *Product) DedupeKey() string {
	name := strings.ToLower(strings.TrimSpace(p.NameOriginal))
	if p.SKU != nil && *p.SKU != "" {
		return fmt.Sprintf("%s|%s", name, *p.SKU)
	}
	if p.ProductURL != nil && *p.ProductURL != "" {
		return *p.ProductURL
	}
	return fmt.Sprintf("%s|%s", name, p.Platform)
}
