// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mizanhq/mizan-api/internal/domain/usage"
	"github.com/mizanhq/mizan-api/pkg/storage"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron            *cron.Cron
	reports         storage.Store
	usageRepo       *usage.Repository
	reportRetention time.Duration
	logger          *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(reports storage.Store, usageRepo *usage.Repository, retentionDays int, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:            c,
		reports:         reports,
		usageRepo:       usageRepo,
		reportRetention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:          logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Nightly cleanup: runs daily at 3:00 AM
	_, err := s.cron.AddFunc("0 3 * * *", s.cleanup)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the cleanup (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.cleanup()
}

// cleanup removes aged report PDFs and stale quota rows.
func (s *Scheduler) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.logger.Info("starting nightly cleanup")

	cutoff := time.Now().Add(-s.reportRetention)

	removed, err := s.reports.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to purge old reports", slog.Any("error", err))
	} else {
		s.logger.Info("purged old reports", slog.Int("removed", removed))
	}

	if s.usageRepo != nil {
		// Quota rows with no demo history are only meaningful for the
		// current day; anything older than the retention window is noise.
		stale, err := s.usageRepo.DeleteStale(ctx, cutoff)
		if err != nil {
			s.logger.Error("failed to purge stale usage records", slog.Any("error", err))
		} else {
			s.logger.Info("purged stale usage records", slog.Int64("removed", stale))
		}
	}

	s.logger.Info("nightly cleanup completed")
}
