package trend

import (
	"time"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// Direction labels the view-count trajectory over a product's metrics
// history.
type Direction string

const (
	// DirectionRising means views are growing beyond the threshold slope.
	DirectionRising Direction = "rising"
	// DirectionFlat means views are roughly stable.
	DirectionFlat Direction = "flat"
	// DirectionFalling means views are declining beyond the threshold slope.
	DirectionFalling Direction = "falling"
	// DirectionUnknown means there is not enough history to tell.
	DirectionUnknown Direction = "unknown"
)

// risingThreshold is the relative daily growth above which the trajectory
// is labeled rising, and below whose negation it is labeled falling.
const risingThreshold = 0.05

// minSnapshotsForSlope is the minimum history length for a fit.
const minSnapshotsForSlope = 3

// Growth summarizes the least-squares fit over a product's view history.
type Growth struct {
	// SlopePerDay is the fitted view delta per day.
	SlopePerDay float64 `json:"slope_per_day"`
	// RelativeSlope is SlopePerDay divided by the mean view count.
	RelativeSlope float64   `json:"relative_slope"`
	Direction     Direction `json:"direction"`
}

// DetectGrowth fits a least-squares line through (capturedAt, totalViews)
// and classifies the slope relative to the mean view count. Snapshots may
// arrive in any order.
func DetectGrowth(history []domain.MetricsSnapshot) Growth {
	if len(history) < minSnapshotsForSlope {
		return Growth{Direction: DirectionUnknown}
	}

	t0 := history[0].CapturedAt
	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(history))
	for _, s := range history {
		x := s.CapturedAt.Sub(t0).Hours() / 24
		y := float64(s.TotalViews)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// All snapshots share a timestamp.
		return Growth{Direction: DirectionUnknown}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	mean := sumY / n

	g := Growth{SlopePerDay: slope}
	if mean > 0 {
		g.RelativeSlope = slope / mean
	}

	switch {
	case g.RelativeSlope > risingThreshold:
		g.Direction = DirectionRising
	case g.RelativeSlope < -risingThreshold:
		g.Direction = DirectionFalling
	default:
		g.Direction = DirectionFlat
	}
	return g
}

// ListingAge derives listing age in days from a first-seen timestamp.
func ListingAge(firstSeen, now time.Time) int {
	if firstSeen.After(now) {
		return 0
	}
	return int(now.Sub(firstSeen).Hours() / 24)
}
