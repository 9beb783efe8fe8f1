// Package trend implements the opportunity-scoring heuristics: engagement
// rate, 72-hour impulse, recency, ease, and the weighted trend score that
// ranks products in a scan.
package trend

import (
	"math"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// Standard trend-score weights.
const (
	weightImpulse = 0.35
	weightUGC     = 0.25
	weightERz     = 0.15
	weightRecency = 0.15
	weightEase    = 0.10
)

// Boosted weights for platforms where short-window impulse dominates
// (Douyin).
const (
	boostWeightImpulse = 0.45
	boostWeightUGC     = 0.30
	boostWeightERz     = 0.10
	boostWeightRecency = 0.10
	boostWeightEase    = 0.05
)

// Impulse and recency tuning.
const (
	freshnessWindowDays = 14
	freshnessBoostMax   = 20
	unknownComponent    = 50.0
	defaultEaseScore    = 5
	zScoreSpan          = 3.0
)

// Components holds the individual inputs to the trend score, exposed so
// reports can explain a ranking.
type Components struct {
	Impulse72h float64 `json:"impulse_72h"`
	UGCShare   float64 `json:"ugc_share"`
	ERz        float64 `json:"er_z"`
	Recency    float64 `json:"recency"`
	Ease       float64 `json:"ease"`
}

// Impulse72h scores how front-loaded recent views are: the share of total
// views accrued in the last 72 hours, plus a freshness boost for young
// listings. Returns 0 when the inputs are unknown.
func Impulse72h(views72h, totalViews int64, listingAgeDays *int) float64 {
	if views72h <= 0 || totalViews <= 0 {
		return 0
	}

	recentRatio := float64(views72h) / float64(totalViews) * 100

	if listingAgeDays != nil && *listingAgeDays > 0 {
		boost := math.Max(0, float64(freshnessWindowDays-*listingAgeDays)/freshnessWindowDays) * freshnessBoostMax
		recentRatio += boost
	}

	return math.Min(100, recentRatio)
}

// UGCShare estimates the share of user-generated content among a product's
// videos.
func UGCShare(videoCount, brandedCount int) float64 {
	if videoCount == 0 {
		return 0
	}
	share := float64(videoCount-brandedCount) / float64(videoCount) * 100
	return clamp(share, 0, 100)
}

// RecencyScore buckets listing age into a 0-100 freshness score. Unknown
// age scores the neutral midpoint.
func RecencyScore(listingAgeDays *int) float64 {
	if listingAgeDays == nil {
		return unknownComponent
	}
	age := *listingAgeDays
	switch {
	case age <= 3:
		return 100
	case age <= 7:
		return 90
	case age <= 14:
		return 75
	case age <= 30:
		return 50
	case age <= 60:
		return 25
	default:
		return 10
	}
}

// EaseComposite combines reproducibility and sampling-ease (both 0-10) into
// a 0-100 score. Missing values default to the midpoint.
func EaseComposite(reproducibility, samplingEase *int) float64 {
	if reproducibility == nil && samplingEase == nil {
		return unknownComponent
	}
	repro := defaultEaseScore
	if reproducibility != nil {
		repro = *reproducibility
	}
	sampling := defaultEaseScore
	if samplingEase != nil {
		sampling = *samplingEase
	}
	return float64(repro+sampling) / 2 * 10
}

// NormalizeER converts a product's engagement rate into a 0-100 score by
// z-normalizing it against the batch. With fewer than two comparable rates
// the neutral midpoint is returned.
func NormalizeER(er float64, batch []float64) float64 {
	if len(batch) < 2 {
		return unknownComponent
	}

	var sum float64
	for _, v := range batch {
		sum += v
	}
	mean := sum / float64(len(batch))

	var variance float64
	for _, v := range batch {
		variance += (v - mean) * (v - mean)
	}
	stdev := math.Sqrt(variance / float64(len(batch)-1))
	if stdev == 0 {
		return unknownComponent
	}

	z := (er - mean) / stdev
	// z in [-3, +3] covers nearly all values; map it onto 0-100.
	normalized := (z + zScoreSpan) / (2 * zScoreSpan) * 100
	return clamp(normalized, 0, 100)
}

// Score computes the weighted trend score from its components. Boosted
// platforms weight impulse and UGC share more heavily.
func Score(c Components, boosted bool) float64 {
	var score float64
	if boosted {
		score = boostWeightImpulse*c.Impulse72h +
			boostWeightUGC*c.UGCShare +
			boostWeightERz*c.ERz +
			boostWeightRecency*c.Recency +
			boostWeightEase*c.Ease
	} else {
		score = weightImpulse*c.Impulse72h +
			weightUGC*c.UGCShare +
			weightERz*c.ERz +
			weightRecency*c.Recency +
			weightEase*c.Ease
	}
	return round2(clamp(score, 0, 100))
}

// ScoreBatch computes components and trend scores for every product in a
// batch, using the batch itself as the ER normalization population, and
// assigns priorities. The snapshot slice must be parallel to products.
func ScoreBatch(products []*domain.Product, snapshots []*domain.MetricsSnapshot) {
	batch := make([]float64, 0, len(products))
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		if er := snap.EngagementRate(); er != nil {
			batch = append(batch, *er)
		}
	}

	for i, p := range products {
		var snap *domain.MetricsSnapshot
		if i < len(snapshots) {
			snap = snapshots[i]
		}
		c := componentsFor(p, snap, batch)
		p.TrendScore = Score(c, p.Platform.Boosted())
		p.Priority = domain.PriorityForScore(p.TrendScore)
	}
}

// componentsFor derives the score components for one product.
func componentsFor(p *domain.Product, snap *domain.MetricsSnapshot, batch []float64) Components {
	c := Components{
		UGCShare: unknownComponent,
		ERz:      unknownComponent,
		Recency:  RecencyScore(p.ListingAgeDays),
		Ease:     EaseComposite(p.Reproducibility, p.SamplingEase),
	}

	if snap != nil {
		c.Impulse72h = Impulse72h(snap.Views72h, snap.TotalViews, p.ListingAgeDays)
		if snap.UGCPercent != nil {
			c.UGCShare = *snap.UGCPercent
		}
		if er := snap.EngagementRate(); er != nil {
			c.ERz = NormalizeER(*er, batch)
		}
	}

	if len(p.Videos) > 0 {
		branded := 0
		for _, v := range p.Videos {
			if v.Branded {
				branded++
			}
		}
		c.UGCShare = UGCShare(len(p.Videos), branded)
	}

	return c
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
