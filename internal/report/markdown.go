package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/trendradar/internal/domain"
)

// writeMarkdown renders the ranked report with a summary header, the
// priority-A shortlist and the full ranked table.
func (g *Generator) writeMarkdown(path string, run *domain.ScanRun, products []*domain.Product) error {
	var b strings.Builder

	runTime := run.CreatedAt
	if run.StartedAt != nil {
		runTime = *run.StartedAt
	}

	fmt.Fprintf(&b, "# Trend Radar Report - %s\n\n", runTime.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "Generated: %s\n\n", formatTimestamp(time.Now()))
	fmt.Fprintf(&b, "- Products found: %d\n", run.ProductsFound)
	fmt.Fprintf(&b, "- Products kept: %d\n", run.ProductsKept)
	fmt.Fprintf(&b, "- Trigger: %s\n", run.Trigger)

	counts := map[domain.Priority]int{}
	var priorityA []*domain.Product
	for _, p := range products {
		counts[p.Priority]++
		if p.Priority == domain.PriorityA {
			priorityA = append(priorityA, p)
		}
	}
	fmt.Fprintf(&b, "- Priorities: %d A / %d B / %d C\n\n",
		counts[domain.PriorityA], counts[domain.PriorityB], counts[domain.PriorityC])

	b.WriteString("## Priority A - act this week\n\n")
	if len(priorityA) == 0 {
		b.WriteString("No priority-A products this run.\n\n")
	}
	for i, p := range priorityA {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, displayName(p))
		fmt.Fprintf(&b, "- Trend score: %.1f", p.TrendScore)
		if p.FitScore != nil {
			fmt.Fprintf(&b, " | Fit score: %d", *p.FitScore)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- Platform: %s", p.Platform)
		if p.Price != nil {
			fmt.Fprintf(&b, " | Price: %s", *p.Price)
		}
		if p.ListingAgeDays != nil {
			fmt.Fprintf(&b, " | Listed %d days ago", *p.ListingAgeDays)
		}
		b.WriteString("\n")
		if hooks := displayHooks(p); hooks != "" {
			fmt.Fprintf(&b, "- Hooks: %s\n", hooks)
		}
		if p.Insight != nil {
			fmt.Fprintf(&b, "- Why it trends: %s\n", *p.Insight)
		}
		if p.Risks != nil {
			fmt.Fprintf(&b, "- Risks: %s\n", *p.Risks)
		}
		if p.ProductURL != nil {
			fmt.Fprintf(&b, "- Link: %s\n", *p.ProductURL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Ranked products (top %d)\n\n", g.topN)
	b.WriteString(g.renderTable(products, table.Style{}, true))
	b.WriteString("\n")

	return os.WriteFile(path, []byte(b.String()), filePerm)
}

// renderTable renders the ranked product table. When markdown is true the
// go-pretty markdown renderer is used, otherwise the colored console one.
func (g *Generator) renderTable(products []*domain.Product, style table.Style, markdown bool) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Priority", "Product", "Platform", "Trend", "Fit", "Views", "ER %", "Age (d)"})

	limit := g.topN
	if limit > len(products) {
		limit = len(products)
	}
	for i, p := range products[:limit] {
		t.AppendRow(table.Row{
			i + 1,
			p.Priority,
			truncate(displayName(p), nameColumnWidth),
			p.Platform,
			fmt.Sprintf("%.1f", p.TrendScore),
			formatOptionalInt(p.FitScore),
			formatViews(p),
			formatER(p),
			formatOptionalInt(p.ListingAgeDays),
		})
	}

	if markdown {
		return t.RenderMarkdown()
	}
	t.SetStyle(style)
	return t.Render()
}

// RenderConsole renders the ranked table for terminal output.
func (g *Generator) RenderConsole(products []*domain.Product) string {
	return g.renderTable(products, table.StyleLight, false)
}

const nameColumnWidth = 40

func displayName(p *domain.Product) string {
	if p.NameTranslated != nil && *p.NameTranslated != "" {
		return *p.NameTranslated
	}
	return p.NameOriginal
}

func displayHooks(p *domain.Product) string {
	if p.HooksTranslated != nil && *p.HooksTranslated != "" {
		return *p.HooksTranslated
	}
	if p.HooksOriginal != nil {
		return *p.HooksOriginal
	}
	return ""
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func formatViews(p *domain.Product) string {
	if p.LatestSnapshot == nil || p.LatestSnapshot.TotalViews <= 0 {
		return "-"
	}
	views := p.LatestSnapshot.TotalViews
	switch {
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return fmt.Sprintf("%d", views)
	}
}

func formatER(p *domain.Product) string {
	if p.LatestSnapshot == nil {
		return "-"
	}
	er := p.LatestSnapshot.EngagementRate()
	if er == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *er)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
