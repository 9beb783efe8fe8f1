package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jonesrussell/trendradar/internal/domain"
)

var csvHeader = []string{
	"priority",
	"trend_score",
	"fit_score",
	"name",
	"name_translated",
	"platform",
	"category",
	"sku",
	"price",
	"listing_age_days",
	"total_views",
	"views_72h",
	"er_percent",
	"hooks",
	"insight",
	"risks",
	"reproducibility",
	"sampling_ease",
	"product_url",
	"seller_url",
	"detected_at",
}

// writeCSV writes every ranked product, not just the markdown top-N, so
// the file can be filtered in a spreadsheet.
func (g *Generator) writeCSV(path string, products []*domain.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeErr := w.Write(csvHeader); writeErr != nil {
		return fmt.Errorf("failed to write csv header: %w", writeErr)
	}

	for _, p := range products {
		if writeErr := w.Write(csvRow(p)); writeErr != nil {
			return fmt.Errorf("failed to write csv row: %w", writeErr)
		}
	}

	w.Flush()
	if flushErr := w.Error(); flushErr != nil {
		return fmt.Errorf("failed to flush csv report: %w", flushErr)
	}
	return nil
}

func csvRow(p *domain.Product) []string {
	var totalViews, views72h, erPercent string
	if s := p.LatestSnapshot; s != nil {
		totalViews = strconv.FormatInt(s.TotalViews, 10)
		views72h = strconv.FormatInt(s.Views72h, 10)
		if er := s.EngagementRate(); er != nil {
			erPercent = strconv.FormatFloat(*er, 'f', 2, 64)
		}
	}

	return []string{
		string(p.Priority),
		strconv.FormatFloat(p.TrendScore, 'f', 1, 64),
		optionalInt(p.FitScore),
		p.NameOriginal,
		optionalString(p.NameTranslated),
		string(p.Platform),
		p.Category,
		optionalString(p.SKU),
		optionalString(p.Price),
		optionalInt(p.ListingAgeDays),
		totalViews,
		views72h,
		erPercent,
		optionalString(displayHooksPtr(p)),
		optionalString(p.Insight),
		optionalString(p.Risks),
		optionalInt(p.Reproducibility),
		optionalInt(p.SamplingEase),
		optionalString(p.ProductURL),
		optionalString(p.SellerURL),
		p.DetectedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func displayHooksPtr(p *domain.Product) *string {
	if s := displayHooks(p); s != "" {
		return &s
	}
	return nil
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
