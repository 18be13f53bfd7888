package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/models"
	"github.com/trafficops/traffic-ops-api/notify"
)

// StatsSource produces the analytics snapshot the digest is built from
type StatsSource interface {
	Compute(ctx context.Context) (*models.AnalyticsResponse, error)
}

// Scheduler runs the periodic background jobs
type Scheduler struct {
	cron   *cron.Cron
	Stats  StatsSource
	Mailer *notify.Mailer
}

// New creates a scheduler with the digest job wired in
func New(stats StatsSource, mailer *notify.Mailer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		Stats:  stats,
		Mailer: mailer,
	}
}

// Start registers the jobs and begins the cron loop
func (s *Scheduler) Start() {
	// daily operations digest at 6 AM UTC
	_, err := s.cron.AddFunc("0 6 * * *", s.sendDailyDigest)
	if err != nil {
		zap.S().Errorw("failed to register daily digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) sendDailyDigest() {
	if s.Mailer == nil || !s.Mailer.Enabled() {
		zap.S().Debug("mailer not configured, skipping daily digest")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stats, err := s.Stats.Compute(ctx)
	if err != nil {
		zap.S().Errorw("failed to compute stats for daily digest", "error", err)
		return
	}

	if err := s.Mailer.DailyDigest(stats); err != nil {
		zap.S().Errorw("failed to send daily digest", "error", err)
		return
	}
	zap.S().Info("daily digest sent")
}
