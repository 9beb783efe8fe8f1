// Package products implements the commands for browsing stored products.
package products

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendradar/cmd/common"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/storage"
	"github.com/jonesrussell/trendradar/internal/trend"
)

const defaultListLimit = 25

// Command returns the products command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse stored trending products",
	}
	cmd.AddCommand(listCommand())
	cmd.AddCommand(showCommand())
	return cmd
}

func listCommand() *cobra.Command {
	var (
		platform string
		priority string
		status   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products ranked by trend score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), storage.ListFilter{
				Platform: platform,
				Priority: priority,
				Status:   status,
				Limit:    limit,
			})
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "filter by platform")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority (A, B, C)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().IntVar(&limit, "limit", defaultListLimit, "maximum rows")
	return cmd
}

func runList(ctx context.Context, filter storage.ListFilter) error {
	deps, err := common.Build()
	if err != nil {
		return err
	}
	defer deps.Close()

	products, err := deps.Products.List(ctx, filter)
	if err != nil {
		return err
	}
	attachSnapshots(ctx, deps, products)

	fmt.Println(deps.Reports.RenderConsole(products))
	return nil
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), args[0])
		},
	}
}

func runShow(ctx context.Context, id string) error {
	deps, err := common.Build()
	if err != nil {
		return err
	}
	defer deps.Close()

	p, err := deps.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	appendRow(t, "ID", p.ID)
	appendRow(t, "Name", p.NameOriginal)
	if p.NameTranslated != nil {
		appendRow(t, "Name (translated)", *p.NameTranslated)
	}
	appendRow(t, "Platform", string(p.Platform))
	appendRow(t, "Category", p.Category)
	appendRow(t, "Priority", string(p.Priority))
	appendRow(t, "Trend score", fmt.Sprintf("%.1f", p.TrendScore))
	if p.FitScore != nil {
		appendRow(t, "Fit score", fmt.Sprintf("%d", *p.FitScore))
	}
	appendRow(t, "Status", p.Status)
	if p.Price != nil {
		appendRow(t, "Price", *p.Price)
	}
	if p.ListingAgeDays != nil {
		appendRow(t, "Listing age", fmt.Sprintf("%d days", *p.ListingAgeDays))
	}
	if p.HooksTranslated != nil {
		appendRow(t, "Hooks", *p.HooksTranslated)
	} else if p.HooksOriginal != nil {
		appendRow(t, "Hooks", *p.HooksOriginal)
	}
	if p.Insight != nil {
		appendRow(t, "Insight", *p.Insight)
	}
	if p.Risks != nil {
		appendRow(t, "Risks", *p.Risks)
	}
	if p.ProductURL != nil {
		appendRow(t, "URL", *p.ProductURL)
	}
	appendRow(t, "Detected", p.DetectedAt.Format("2006-01-02"))

	t.Render()

	history, err := deps.Snapshots.History(ctx, p.ID, defaultListLimit)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		fmt.Println("\nMetrics history:")
		h := table.NewWriter()
		h.SetOutputMirror(os.Stdout)
		h.SetStyle(table.StyleLight)
		h.AppendHeader(table.Row{"Captured", "Views", "72h views", "Likes", "Comments"})
		for i := range history {
			s := &history[i]
			h.AppendRow(table.Row{
				s.CapturedAt.Format("2006-01-02"),
				s.TotalViews,
				s.Views72h,
				s.Likes,
				s.Comments,
			})
		}
		h.Render()

		if g := trend.DetectGrowth(history); g.Direction != trend.DirectionUnknown {
			fmt.Printf("\nGrowth: %s (%+.0f views/day)\n", g.Direction, g.SlopePerDay)
		}
	}
	return nil
}

func appendRow(t table.Writer, label, value string) {
	if value == "" {
		return
	}
	t.AppendRow(table.Row{label, value})
}

func attachSnapshots(ctx context.Context, deps *common.Deps, products []*domain.Product) {
	for _, p := range products {
		snap, err := deps.Snapshots.Latest(ctx, p.ID)
		if err != nil {
			continue
		}
		p.LatestSnapshot = snap
	}
}
