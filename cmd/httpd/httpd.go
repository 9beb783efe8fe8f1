// Package httpd implements the command that serves the HTTP API.
package httpd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendradar/cmd/common"
	"github.com/jonesrussell/trendradar/internal/api"
	"github.com/jonesrussell/trendradar/internal/job"
	"github.com/jonesrussell/trendradar/internal/pipeline"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	var withScheduler bool

	cmd := &cobra.Command{
		Use:   "httpd",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), withScheduler)
		},
	}

	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "also run the cron scheduler")
	return cmd
}

func runServer(ctx context.Context, withScheduler bool) error {
	deps, err := common.Build()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scanning via POST /runs is available only when collectors are
	// configured; the read endpoints work regardless.
	var pl *pipeline.Pipeline
	pl, err = deps.BuildPipeline(ctx)
	if err != nil {
		deps.Logger.Warn("Scan pipeline unavailable", "error", err)
		pl = nil
	}

	var runner api.Runner
	if pl != nil {
		runner = pl
	}

	server := api.NewServer(
		&deps.Config.Server,
		api.NewProductsHandler(deps.Products, deps.Snapshots),
		api.NewRunsHandler(deps.Runs, runner, ctx, deps.Logger),
		api.NewReportsHandler(deps.Reports),
		deps.Logger,
	)

	if withScheduler && pl != nil {
		sched := job.NewScheduler(pl, deps.Config.Radar.Schedule, deps.Logger)
		if err = sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	return server.Start(ctx)
}
