// Package job runs the scan pipeline on a cron schedule.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

// stopTimeout bounds how long Stop waits for a running scan.
const stopTimeout = 30 * time.Second

// Runner is the pipeline surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context, trigger string) (*domain.ScanRun, error)
}

// Scheduler triggers periodic scans. Overlapping runs are skipped.
type Scheduler struct {
	runner   Runner
	schedule string
	cron     *cron.Cron
	logger   logger.Interface

	mu      sync.Mutex
	running bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler for the given 5-field cron expression.
func NewScheduler(runner Runner, schedule string, log logger.Interface) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   log.WithComponent("scheduler"),
	}
}

// Start registers the cron entry and begins scheduling. It returns
// immediately; scans run on the cron goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.baseCtx, s.cancel = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, s.runScheduled)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		"schedule", s.schedule,
		"entry", int(entryID),
	)
	return nil
}

// Stop halts scheduling and waits for an in-flight scan, up to a bound.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("Timed out waiting for cron to stop")
	}

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.logger.Warn("Timed out waiting for scan to finish")
	}

	s.logger.Info("Scheduler stopped")
}

// runScheduled executes one scheduled scan unless one is already active.
func (s *Scheduler) runScheduled() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping scheduled scan, previous scan still running")
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	run, err := s.runner.Run(s.baseCtx, domain.RunTriggerSchedule)
	if err != nil {
		s.logger.Error("Scheduled scan failed", "error", err)
		return
	}
	s.logger.Info("Scheduled scan completed",
		"run", run.ID,
		"kept", run.ProductsKept,
	)
}
