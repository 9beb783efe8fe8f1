// Package scan implements the command that executes one scan run.
package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendradar/cmd/common"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/storage"
)

// Command returns the scan command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one scan: collect, score and report trending products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context())
		},
	}
}

func runScan(ctx context.Context) error {
	deps, err := common.Build()
	if err != nil {
		return err
	}
	defer deps.Close()

	pl, err := deps.BuildPipeline(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := pl.Run(ctx, domain.RunTriggerManual)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	products, err := deps.Products.List(ctx, storage.ListFilter{Limit: deps.Config.Report.TopN})
	if err != nil {
		return err
	}

	fmt.Printf("Scan %s completed: %d found, %d kept\n\n", run.ID, run.ProductsFound, run.ProductsKept)
	fmt.Println(deps.Reports.RenderConsole(products))
	if run.ReportPath != nil {
		fmt.Printf("\nReport: %s\n", *run.ReportPath)
	}
	return nil
}
