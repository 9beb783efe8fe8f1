// Package scraper implements the selector-driven ads-intelligence site
// scraper: a colly collector that walks trending-product list pages and
// product detail pages, extracting metrics through configurable CSS
// selector chains.
package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Chain is an ordered list of CSS selectors tried until one matches.
// Trending sites churn their markup; fallbacks keep sources alive between
// selector updates.
type Chain []string

// Text returns the trimmed text of the first selector that matches a
// non-empty element.
func (c Chain) Text(sel *goquery.Selection) string {
	for _, s := range c {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// Attr returns the named attribute of the first selector that matches an
// element carrying it.
func (c Chain) Attr(sel *goquery.Selection, name string) string {
	for _, s := range c {
		if val, ok := sel.Find(s).First().Attr(name); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// Each visits every element matched by the first selector with any matches.
func (c Chain) Each(sel *goquery.Selection, fn func(*goquery.Selection)) {
	for _, s := range c {
		matches := sel.Find(s)
		if matches.Length() == 0 {
			continue
		}
		matches.Each(func(_ int, m *goquery.Selection) {
			fn(m)
		})
		return
	}
}

// ListSelectors locate product cards on a trending list page.
type ListSelectors struct {
	// Card matches one product card.
	Card Chain `yaml:"card" mapstructure:"card"`
	// Link extracts the detail-page link inside a card.
	Link Chain `yaml:"link" mapstructure:"link"`
	// Name extracts the product name inside a card.
	Name Chain `yaml:"name" mapstructure:"name"`
	// Category extracts the category tag inside a card.
	Category Chain `yaml:"category" mapstructure:"category"`
}

// Validate validates the list selectors.
func (s *ListSelectors) Validate() error {
	if len(s.Card) == 0 {
		return errors.New("card selector is required")
	}
	if len(s.Link) == 0 {
		return errors.New("link selector is required")
	}
	return nil
}

// ProductSelectors extract metrics from a product detail page.
type ProductSelectors struct {
	Name       Chain `yaml:"name" mapstructure:"name"`
	SKU        Chain `yaml:"sku" mapstructure:"sku"`
	Price      Chain `yaml:"price" mapstructure:"price"`
	SellerLink Chain `yaml:"seller_link" mapstructure:"seller_link"`
	TotalViews Chain `yaml:"total_views" mapstructure:"total_views"`
	Views24h   Chain `yaml:"views_24h" mapstructure:"views_24h"`
	Views72h   Chain `yaml:"views_72h" mapstructure:"views_72h"`
	Likes      Chain `yaml:"likes" mapstructure:"likes"`
	Comments   Chain `yaml:"comments" mapstructure:"comments"`
	ListingAge Chain `yaml:"listing_age" mapstructure:"listing_age"`
	// VideoCard matches one supporting-video card; the remaining video
	// selectors apply within it.
	VideoCard  Chain `yaml:"video_card" mapstructure:"video_card"`
	VideoLink  Chain `yaml:"video_link" mapstructure:"video_link"`
	VideoViews Chain `yaml:"video_views" mapstructure:"video_views"`
	VideoHook  Chain `yaml:"video_hook" mapstructure:"video_hook"`
}

// Selectors groups the per-source selector configuration.
type Selectors struct {
	List    ListSelectors    `yaml:"list" mapstructure:"list"`
	Product ProductSelectors `yaml:"product" mapstructure:"product"`
}

// Validate validates the selectors.
func (s *Selectors) Validate() error {
	return s.List.Validate()
}
