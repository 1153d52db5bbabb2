package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

type LeadLister interface {
	List(ctx context.Context) ([]*models.Lead, error)
}

// Reporter writes the daily "reports" notification, at most one per calendar day.
type Reporter struct {
	sink
	leads     LeadLister
	reminders ReminderSource
	now       func() time.Time
}

func NewReporter(leads LeadLister, reminders ReminderSource, store Store, logger *zap.Logger, publishers ...Publisher) *Reporter {
	return &Reporter{
		sink:      sink{store: store, publishers: publishers, log: logger},
		leads:     leads,
		reminders: reminders,
		now:       time.Now,
	}
}

// Summary is the content of one daily report.
type Summary struct {
	Date         string `json:"date"`
	TotalLeads   int    `json:"total_leads"`
	NewLeads     int    `json:"new_leads"`
	Converted    int    `json:"converted"`
	RemindersDue int    `json:"reminders_due"`
}

// Summarize computes today's figures in the local time zone of now.
func (r *Reporter) Summarize(ctx context.Context) (*Summary, error) {
	now := r.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	leads, err := r.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	reminders, err := r.reminders.ListActiveDueBefore(ctx, now.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}

	sum := &Summary{Date: start.Format("2006-01-02"), TotalLeads: len(leads)}
	for _, l := range leads {
		if !l.CreatedAt.Before(start) {
			sum.NewLeads++
		}
		if l.LeadStatus == models.LeadStatusConverted {
			sum.Converted++
		}
	}
	for _, rem := range reminders {
		if rem.DueDate != nil && !rem.IsCompleted() && !rem.DueDate.Before(now) {
			sum.RemindersDue++
		}
	}
	return sum, nil
}

// Daily stores today's report. It returns nil when today's report already exists.
func (r *Reporter) Daily(ctx context.Context) (*models.Notification, error) {
	sum, err := r.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	n := models.NewNotification(models.NotificationReports,
		"Daily report "+sum.Date,
		fmt.Sprintf("%d new leads today, %d total, %d converted. %d reminders due in the next 24 hours.",
			sum.NewLeads, sum.TotalLeads, sum.Converted, sum.RemindersDue),
		models.Meta{"date": sum.Date},
	)
	ok, err := r.emit(ctx, n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return n, nil
}
