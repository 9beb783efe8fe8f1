// Package scheduler implements the command that runs periodic scans.
package scheduler

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendradar/cmd/common"
	"github.com/jonesrussell/trendradar/internal/job"
)

// Command returns the scheduler command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run scans on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(cmd.Context())
		},
	}
}

func runScheduler(ctx context.Context) error {
	deps, err := common.Build()
	if err != nil {
		return err
	}
	defer deps.Close()

	pl, err := deps.BuildPipeline(ctx)
	if err != nil {
		return err
	}

	sched := job.NewScheduler(pl, deps.Config.Radar.Schedule, deps.Logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	sched.Stop()
	return nil
}
