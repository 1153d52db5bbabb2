// Package scheduler runs the notification scans on a ticker and on demand.
package scheduler

import (
	"context"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	"go.uber.org/zap"
)

// Jobs is the work done on each check, e.g. *crm.Service.
type Jobs interface {
	Scan(ctx context.Context) (*notify.Result, error)
	DailyReport(ctx context.Context) (*models.Notification, error)
}

type Scheduler struct {
	jobs          Jobs
	checkInterval time.Duration
	reportHour    int
	startDelay    time.Duration
	notifyCh      chan struct{}
	log           *zap.Logger
	now           func() time.Time
}

// New creates a scheduler. reportHour is the local hour from which the daily report is
// written; -1 turns the report off.
func New(jobs Jobs, interval time.Duration, reportHour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:          jobs,
		checkInterval: interval,
		reportHour:    reportHour,
		startDelay:    2 * time.Second,
		notifyCh:      make(chan struct{}, 1),
		log:           logger,
		now:           time.Now,
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

// Start blocks until ctx is done. A non-positive interval disables the loop.
func (s *Scheduler) Start(ctx context.Context) {
	if s.checkInterval <= 0 {
		s.log.Info("scheduler disabled")
		return
	}
	s.log.Info("scheduler started", zap.Duration("interval", s.checkInterval))
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(s.startDelay):
	}

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.log.Debug("scheduler triggered")
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	result, err := s.jobs.Scan(ctx)
	if err != nil {
		// Each failing scan is already logged by the scanner.
		s.log.Warn("notification scan incomplete", zap.Error(err))
	}
	if result != nil && result.Created() > 0 {
		s.log.Info("notification scan",
			zap.Int("threshold", len(result.Threshold)), zap.Int("due_soon", len(result.DueSoon)))
	}

	if s.reportDue() {
		n, err := s.jobs.DailyReport(ctx)
		if err != nil {
			s.log.Warn("daily report failed", zap.Error(err))
		} else if n != nil {
			s.log.Info("daily report written", zap.Int64("notification_id", n.NotificationID))
		}
	}
}

// reportDue reports whether the daily report hour has been reached today. Writing the
// report is idempotent per day, so every later check may try again.
func (s *Scheduler) reportDue() bool {
	return s.reportHour >= 0 && s.now().Hour() >= s.reportHour
}
