// Package notify turns lead and reminder state into de-duplicated notifications.
//
// Each rule emits at most one notification per (type, meta key): the threshold scan
// once per lead-count milestone, the due-soon scan once per reminder and tag. Scans are
// safe to run on every poll.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/rrule"
	"go.uber.org/zap"
)

// Milestones are the lead totals that raise a no_leads notification, ascending.
var Milestones = []int{5, 10, 20, 50, 100, 200, 500, 1000}

const (
	TagDue1h = "due_1h"
	TagDue1d = "due_1d"
)

type window struct {
	tag    string
	within time.Duration
	label  string
}

// dueWindows overlap: a reminder due in 30 minutes falls in both.
var dueWindows = []window{
	{tag: TagDue1h, within: time.Hour, label: "1 hour"},
	{tag: TagDue1d, within: 24 * time.Hour, label: "1 day"},
}

type LeadCounter interface {
	Count(ctx context.Context) (int, error)
}

type ReminderSource interface {
	ListActiveDueBefore(ctx context.Context, until time.Time) ([]*models.Reminder, error)
}

type Store interface {
	Exists(ctx context.Context, t models.NotificationType, dedupKey string) (bool, error)
	Insert(ctx context.Context, n *models.Notification) (bool, error)
}

// Publisher receives each newly stored notification. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

type Scanner struct {
	sink
	leads     LeadCounter
	reminders ReminderSource
	now       func() time.Time
}

func NewScanner(leads LeadCounter, reminders ReminderSource, store Store, logger *zap.Logger, publishers ...Publisher) *Scanner {
	return &Scanner{
		sink:      sink{store: store, publishers: publishers, log: logger},
		leads:     leads,
		reminders: reminders,
		now:       time.Now,
	}
}

// Result lists the notifications a scan created.
type Result struct {
	Threshold []*models.Notification `json:"threshold"`
	DueSoon   []*models.Notification `json:"due_soon"`
}

func (r *Result) Created() int {
	return len(r.Threshold) + len(r.DueSoon)
}

// Scan runs the threshold and due-soon scans independently. A failure in one does not
// stop the other; all failures are joined into the returned error.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	result := &Result{}

	threshold, errThreshold := s.ScanThresholds(ctx)
	if errThreshold != nil {
		s.log.Error("threshold scan failed", zap.Error(errThreshold))
	}
	result.Threshold = threshold

	dueSoon, errDue := s.ScanDueSoon(ctx)
	if errDue != nil {
		s.log.Error("due-soon scan failed", zap.Error(errDue))
	}
	result.DueSoon = dueSoon

	return result, errors.Join(errThreshold, errDue)
}

// ScanThresholds emits one no_leads notification per milestone the lead total has reached.
func (s *Scanner) ScanThresholds(ctx context.Context) ([]*models.Notification, error) {
	total, err := s.leads.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	var created []*models.Notification
	for _, milestone := range Milestones {
		if total < milestone {
			break
		}
		n := models.NewNotification(models.NotificationLeadCount,
			fmt.Sprintf("%d leads reached", milestone),
			fmt.Sprintf("Your lead count has reached %d.", milestone),
			models.Meta{"count": milestone},
		)
		ok, err := s.emit(ctx, n)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, n)
		}
	}
	return created, nil
}

// ScanDueSoon emits reminder_status notifications for non-completed reminders due within
// one hour (due_1h) and within one day (due_1d). Reminders already past due are not "due
// soon" and are left alone.
func (s *Scanner) ScanDueSoon(ctx context.Context) ([]*models.Notification, error) {
	now := s.now()
	widest := dueWindows[len(dueWindows)-1].within
	reminders, err := s.reminders.ListActiveDueBefore(ctx, now.Add(widest))
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}

	var created []*models.Notification
	var errs []error
	for _, w := range dueWindows {
		deadline := now.Add(w.within)
		for _, r := range reminders {
			if r.DueDate == nil {
				s.log.Warn("skipping reminder without due date", zap.Int64("reminder_id", r.ReminderID))
				continue
			}
			if r.IsCompleted() || r.DueDate.Before(now) || r.DueDate.After(deadline) {
				continue
			}

			n := models.NewNotification(models.NotificationReminderStatus,
				fmt.Sprintf("Reminder due within %s", w.label),
				dueMessage(r),
				models.Meta{"reminderId": r.ReminderID, "tag": w.tag},
			)
			ok, err := s.emit(ctx, n)
			if err != nil {
				errs = append(errs, fmt.Errorf("reminder %d (%s): %w", r.ReminderID, w.tag, err))
				continue
			}
			if ok {
				created = append(created, n)
			}
		}
	}
	return created, errors.Join(errs...)
}

func dueMessage(r *models.Reminder) string {
	kind := r.Type
	if kind == "" {
		kind = "Follow-up"
	}
	who := r.LeadName
	if who == "" {
		who = fmt.Sprintf("lead #%d", r.LeadID)
	}
	msg := fmt.Sprintf("%s with %s is due at %s.", kind, who, r.DueDate.Format("Jan 2 15:04"))
	if r.IsRecurring() {
		msg += " (" + rrule.Describe(r.RecurrenceRule) + ")"
	}
	return msg
}

// sink stores notifications and fans new ones out to the publishers.
type sink struct {
	store      Store
	publishers []Publisher
	log        *zap.Logger
}

// emit stores n unless its key exists and hands new notifications to the publishers.
func (s *sink) emit(ctx context.Context, n *models.Notification) (bool, error) {
	exists, err := s.store.Exists(ctx, n.Type, n.DedupKey)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	if exists {
		return false, nil
	}

	inserted, err := s.store.Insert(ctx, n)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	if !inserted {
		return false, nil
	}

	s.log.Info("notification created",
		zap.String("type", string(n.Type)), zap.String("key", n.DedupKey))
	Publish(ctx, s.log, s.publishers, n)
	return true, nil
}

// Publish fans n out to every publisher, logging and swallowing failures.
func Publish(ctx context.Context, logger *zap.Logger, publishers []Publisher, n *models.Notification) {
	for _, p := range publishers {
		if err := p.Publish(ctx, n); err != nil {
			logger.Warn("failed to publish notification",
				zap.Int64("notification_id", n.NotificationID), zap.Error(err))
		}
	}
}
