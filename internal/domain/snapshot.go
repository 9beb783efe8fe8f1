package domain

import "time"

// MetricsSnapshot is a time-stamped metrics-history row for a product.
// Snapshots are append-only; the newest one drives scoring.
type MetricsSnapshot struct {
	ID         string    `json:"id" db:"id"`
	ProductID  string    `json:"product_id" db:"product_id"`
	CapturedAt time.Time `json:"captured_at" db:"captured_at"`

	TotalViews int64 `json:"total_views" db:"total_views"`
	Views24h   int64 `json:"views_24h" db:"views_24h"`
	Views72h   int64 `json:"views_72h" db:"views_72h"`
	Likes      int64 `json:"likes" db:"likes"`
	Comments   int64 `json:"comments" db:"comments"`

	ERPercent  *float64 `json:"er_percent,omitempty" db:"er_percent"`
	UGCPercent *float64 `json:"ugc_percent,omitempty" db:"ugc_percent"`
}

// EngagementRate computes (likes+comments)/views*100 from the snapshot
// totals, doubling comments when likes are unavailable. Returns nil when
// views are unknown.
func (s *MetricsSnapshot) EngagementRate() *float64 {
	if s.TotalViews <= 0 {
		return nil
	}
	engagement := s.Likes + s.Comments
	if s.Likes == 0 && s.Comments > 0 {
		engagement = s.Comments * 2
	}
	er := float64(engagement) / float64(s.TotalViews) * 100
	return &er
}
