package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"github.com/google/uuid"

	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/metrics"
)

// Collector defaults
const (
	defaultMaxProducts = 20
	// RandomDelayDivisor is used to calculate random delay from rate limit
	RandomDelayDivisor = 2
)

// randomUserAgents is a small set of desktop browser user agents for
// UseRandomUserAgent.
var randomUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// Result is one scraped product with its freshly captured metrics.
type Result struct {
	Product  *domain.Product
	Snapshot *domain.MetricsSnapshot
}

// Scraper scrapes trending products from a selector-configured source.
type Scraper struct {
	cfg     *config.ScraperConfig
	logger  logger.Interface
	metrics *metrics.Metrics
}

// New creates a new scraper.
func New(cfg *config.ScraperConfig, log logger.Interface, m *metrics.Metrics) *Scraper {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Scraper{
		cfg:     cfg,
		logger:  log.WithComponent("scraper"),
		metrics: m,
	}
}

// Scrape walks the source's trending list page, follows product cards to
// their detail pages, and returns the extracted products. The context
// cancels in-flight requests.
func (s *Scraper) Scrape(ctx context.Context, source *Source) ([]Result, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	listCollector, err := s.buildCollector(ctx, source)
	if err != nil {
		return nil, err
	}
	detailCollector := listCollector.Clone()

	maxProducts := source.MaxProducts
	if maxProducts <= 0 {
		maxProducts = defaultMaxProducts
	}

	var (
		mu      sync.Mutex
		results []Result
		visited = map[string]bool{}
	)

	// Card links from the list page feed the detail collector.
	listCollector.OnHTML("html", func(e *colly.HTMLElement) {
		count := 0
		source.Selectors.List.Card.Each(e.DOM, func(card *goquery.Selection) {
			mu.Lock()
			full := len(visited) >= maxProducts
			mu.Unlock()
			if full {
				return
			}

			link := source.Selectors.List.Link.Attr(card, "href")
			if link == "" {
				if href, ok := card.Attr("href"); ok {
					link = href
				}
			}
			if link == "" {
				return
			}
			link = e.Request.AbsoluteURL(link)

			mu.Lock()
			if visited[link] {
				mu.Unlock()
				return
			}
			visited[link] = true
			mu.Unlock()

			count++
			if visitErr := detailCollector.Visit(link); visitErr != nil {
				s.logger.Debug("Skipping product link", "url", link, "error", visitErr)
			}
		})
		s.logger.Debug("List page processed",
			"url", e.Request.URL.String(),
			"cards", count,
		)
	})

	detailCollector.OnHTML("html", func(e *colly.HTMLElement) {
		result := s.extractProduct(e, source)
		if result == nil {
			s.metrics.UpdateMetrics(false)
			return
		}
		s.metrics.UpdateMetrics(true)
		mu.Lock()
		results = append(results, *result)
		mu.Unlock()
	})

	for _, c := range []*colly.Collector{listCollector, detailCollector} {
		c.OnError(func(r *colly.Response, respErr error) {
			s.metrics.RecordRequest(false)
			s.logger.Warn("Request failed",
				"url", r.Request.URL.String(),
				"status", r.StatusCode,
				"error", respErr,
			)
		})
		c.OnResponse(func(r *colly.Response) {
			s.metrics.RecordRequest(true)
		})
	}

	s.metrics.SetCurrentSource(source.Name)
	s.logger.Info("Scraping source",
		"source", source.Name,
		"url", source.URL,
		"max_products", maxProducts,
	)

	if visitErr := listCollector.Visit(source.URL); visitErr != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", source.URL, visitErr)
	}

	listCollector.Wait()
	detailCollector.Wait()

	s.logger.Info("Source scraped",
		"source", source.Name,
		"products", len(results),
	)

	return results, nil
}

// buildCollector configures a colly collector for the source.
func (s *Scraper) buildCollector(ctx context.Context, source *Source) (*colly.Collector, error) {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.Async(true),
		colly.MaxDepth(2),
		colly.IgnoreRobotsTxt(),
	}

	userAgent := s.cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if s.cfg.UseRandomUserAgent {
		userAgent = randomUserAgents[rand.Intn(len(randomUserAgents))]
	}
	opts = append(opts, colly.UserAgent(userAgent))

	if len(source.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(source.AllowedDomains...))
	}

	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(s.cfg.RequestTimeout)

	rateLimit := s.resolveRateLimit(source)
	randomDelay := s.cfg.RandomDelay
	if randomDelay == 0 {
		randomDelay = rateLimit / RandomDelayDivisor
	}

	if limitErr := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       rateLimit,
		RandomDelay: randomDelay,
		Parallelism: s.cfg.Parallelism,
	}); limitErr != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", limitErr)
	}

	return c, nil
}

// resolveRateLimit parses the source rate limit string or falls back to
// the scraper default.
func (s *Scraper) resolveRateLimit(source *Source) time.Duration {
	if source.RateLimit == "" {
		return s.cfg.RateLimit
	}
	rateLimit, err := time.ParseDuration(source.RateLimit)
	if err != nil {
		s.logger.Error("Failed to parse rate limit, using default",
			"rate_limit", source.RateLimit,
			"default", s.cfg.RateLimit,
			"error", err,
		)
		return s.cfg.RateLimit
	}
	return rateLimit
}

// extractProduct mines a detail page through the source's selector chains.
// Returns nil when the page yields no product name.
func (s *Scraper) extractProduct(e *colly.HTMLElement, source *Source) *Result {
	sel := source.Selectors.Product
	doc := e.DOM

	name := sel.Name.Text(doc)
	if name == "" {
		s.logger.Debug("Detail page without product name", "url", e.Request.URL.String())
		return nil
	}

	productURL := e.Request.URL.String()
	product := &domain.Product{
		ID:           uuid.NewString(),
		Platform:     source.Platform,
		Category:     source.Category,
		NameOriginal: name,
		ProductURL:   &productURL,
		Status:       domain.ProductStatusNew,
		DetectedAt:   time.Now().UTC(),
	}

	if sku := sel.SKU.Text(doc); sku != "" {
		product.SKU = &sku
	}
	if price := ParsePrice(sel.Price.Text(doc)); price != "" {
		product.Price = &price
	}
	if seller := sel.SellerLink.Attr(doc, "href"); seller != "" {
		abs := e.Request.AbsoluteURL(seller)
		product.SellerURL = &abs
	}
	product.ListingAgeDays = ParseListingAge(sel.ListingAge.Text(doc))

	snapshot := &domain.MetricsSnapshot{
		ProductID:  product.ID,
		CapturedAt: time.Now().UTC(),
		TotalViews: ParseCount(sel.TotalViews.Text(doc)),
		Views24h:   ParseCount(sel.Views24h.Text(doc)),
		Views72h:   ParseCount(sel.Views72h.Text(doc)),
		Likes:      ParseCount(sel.Likes.Text(doc)),
		Comments:   ParseCount(sel.Comments.Text(doc)),
	}

	sel.VideoCard.Each(doc, func(card *goquery.Selection) {
		video := domain.TrendingVideo{
			URL:   e.Request.AbsoluteURL(sel.VideoLink.Attr(card, "href")),
			Views: ParseCount(sel.VideoViews.Text(card)),
			Hook:  sel.VideoHook.Text(card),
		}
		if video.URL == "" && video.Views == 0 {
			return
		}
		product.Videos = append(product.Videos, video)
	})

	// Collect hooks off the top videos, two joined by " / " like analyst
	// shortlists.
	hooks := make([]string, 0, 2)
	for _, v := range product.Videos {
		if v.Hook != "" {
			hooks = append(hooks, v.Hook)
		}
		if len(hooks) == 2 {
			break
		}
	}
	if len(hooks) > 0 {
		joined := strings.Join(hooks, " / ")
		product.HooksOriginal = &joined
	}

	return &Result{Product: product, Snapshot: snapshot}
}
