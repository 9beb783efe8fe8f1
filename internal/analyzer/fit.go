package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

const fitSystemPrompt = `You are a product sourcing analyst for a consumer brand.
Given a trending product and the brand profile, assess how well the product
fits the brand's positioning. Respond with a single JSON object:
{
  "fit_score": <integer 0-100>,
  "insight": "<one or two sentences on why this product is or is not trending>",
  "risks": "<main risks: regulatory, logistics, saturation, seasonality>",
  "reproducibility": <integer 1-10, how easily the brand could source or replicate it>,
  "sampling_ease": <integer 1-10, how cheap and fast a test order would be>
}
Respond with JSON only, no commentary.`

// FitResult is the model's assessment of one product.
type FitResult struct {
	FitScore        int    `json:"fit_score"`
	Insight         string `json:"insight"`
	Risks           string `json:"risks"`
	Reproducibility int    `json:"reproducibility"`
	SamplingEase    int    `json:"sampling_ease"`
}

// ModelClient is the slice of Client the analyzer needs.
type ModelClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Analyzer enriches products with brand fit scores and translations.
type Analyzer struct {
	client         ModelClient
	rater          *Rater
	brandProfile   string
	targetLanguage string
	logger         logger.Interface
}

// New creates an analyzer for the given brand profile.
func New(client ModelClient, brandProfile, targetLanguage string, log logger.Interface) *Analyzer {
	if targetLanguage == "" {
		targetLanguage = "English"
	}
	return &Analyzer{
		client:         client,
		rater:          NewRater(client),
		brandProfile:   brandProfile,
		targetLanguage: targetLanguage,
		logger:         log.WithComponent("analyzer"),
	}
}

// AnalyzeProduct fills the product's fit score, insight, risks and
// sourcing estimates. The product is modified in place.
func (a *Analyzer) AnalyzeProduct(ctx context.Context, p *domain.Product) error {
	raw, err := a.client.Complete(ctx, fitSystemPrompt, a.buildPrompt(p))
	if err != nil {
		return fmt.Errorf("fit analysis for %q failed: %w", p.NameOriginal, err)
	}

	var result FitResult
	if parseErr := json.Unmarshal([]byte(extractJSON(raw)), &result); parseErr != nil {
		return fmt.Errorf("fit analysis for %q returned invalid JSON: %w", p.NameOriginal, parseErr)
	}

	// Models occasionally answer in prose instead of a numeric score; fall
	// back to rating the insight text against the fit scale.
	if result.FitScore == 0 && result.Insight != "" {
		rated, rateErr := a.rater.Rate(ctx, result.Insight)
		if rateErr != nil {
			a.logger.Warn("Fit score fallback rating failed",
				"product", p.NameOriginal,
				"error", rateErr,
			)
		} else {
			result.FitScore = rated
		}
	}

	result.FitScore = clampInt(result.FitScore, 0, 100)
	p.FitScore = &result.FitScore
	if result.Insight != "" {
		p.Insight = &result.Insight
	}
	if result.Risks != "" {
		p.Risks = &result.Risks
	}
	if result.Reproducibility > 0 {
		repro := clampInt(result.Reproducibility, 1, 10)
		p.Reproducibility = &repro
	}
	if result.SamplingEase > 0 {
		ease := clampInt(result.SamplingEase, 1, 10)
		p.SamplingEase = &ease
	}

	a.logger.Debug("Product analyzed",
		"product", p.NameOriginal,
		"fit_score", result.FitScore,
	)
	return nil
}

// buildPrompt renders the product summary handed to the model.
func (a *Analyzer) buildPrompt(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Brand profile:\n%s\n\n", a.brandProfile)
	fmt.Fprintf(&b, "Product: %s\n", p.NameOriginal)
	fmt.Fprintf(&b, "Platform: %s\n", p.Platform)
	if p.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", p.Category)
	}
	if p.Price != nil {
		fmt.Fprintf(&b, "Price: %s\n", *p.Price)
	}
	if p.ListingAgeDays != nil {
		fmt.Fprintf(&b, "Listing age: %d days\n", *p.ListingAgeDays)
	}
	if p.HooksOriginal != nil {
		fmt.Fprintf(&b, "Ad hooks: %s\n", *p.HooksOriginal)
	}
	if len(p.Videos) > 0 {
		fmt.Fprintf(&b, "Trending videos: %d, top views %d\n", len(p.Videos), p.Videos[0].Views)
	}
	return b.String()
}

// extractJSON strips markdown code fences and surrounding prose, keeping
// the outermost JSON object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
