package domain

import "time"

// TrendingVideo is a short-form video promoting a product, surfaced by a
// vendor or scraped from the ads-intelligence site.
type TrendingVideo struct {
	URL      string `json:"url"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
	// Hook is the opening line of the ad creative, when available.
	Hook string `json:"hook,omitempty"`
	// Branded marks videos posted by the seller rather than users.
	Branded  bool       `json:"branded"`
	PostedAt *time.Time `json:"posted_at,omitempty"`
}

// EngagementRate computes (likes+comments)/views*100 for a single video.
// When likes are unavailable the comment count is doubled as an
// approximation. Returns 0 when views are unknown.
func (v *TrendingVideo) EngagementRate() float64 {
	if v.Views <= 0 {
		return 0
	}
	engagement := v.Likes + v.Comments
	if v.Likes == 0 && v.Comments > 0 {
		engagement = v.Comments * 2
	}
	return float64(engagement) / float64(v.Views) * 100
}
