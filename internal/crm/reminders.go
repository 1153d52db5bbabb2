package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/rrule"
	"go.uber.org/zap"
)

type ReminderInput struct {
	LeadID         int64      `json:"lead_id" validate:"required,gt=0"`
	Type           string     `json:"type" validate:"required,max=100"`
	DueDate        *time.Time `json:"due_date" validate:"required"`
	Status         string     `json:"status" validate:"omitempty,reminder_status"`
	Notes          string     `json:"notes"`
	RecurrenceRule string     `json:"recurrence_rule"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,reminder_status"`
}

func (s *Service) ListReminders(ctx context.Context) ([]*models.Reminder, error) {
	reminders, err := s.stores.Reminders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (s *Service) CreateReminder(ctx context.Context, in ReminderInput) (*models.Reminder, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Status = strings.TrimSpace(in.Status)
	in.RecurrenceRule = strings.TrimSpace(in.RecurrenceRule)
	if err := s.valid.check(&in); err != nil {
		return nil, err
	}
	if in.RecurrenceRule != "" {
		if err := rrule.Validate(in.RecurrenceRule); err != nil {
			return nil, fieldError("recurrence_rule", "recurrence_rule must be an RFC 5545 RRULE")
		}
	}
	if in.Status == "" {
		in.Status = string(models.ReminderPending)
	}

	lead, err := s.stores.Leads.GetByID(ctx, in.LeadID)
	if err != nil {
		return nil, err
	}

	reminder := &models.Reminder{
		LeadID:         lead.LeadID,
		LeadName:       lead.FullName,
		Type:           in.Type,
		DueDate:        in.DueDate,
		Status:         models.ReminderStatus(in.Status),
		Notes:          in.Notes,
		RecurrenceRule: in.RecurrenceRule,
	}
	if err := s.stores.Reminders.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.mirror(ctx, reminder.LeadID)
	s.poke()
	return reminder, nil
}

// SetReminderStatus accepts any status. Completing a recurring reminder also creates a
// new Pending reminder at the next occurrence, which carries the rule from then on, and
// returns that one.
func (s *Service) SetReminderStatus(ctx context.Context, reminderID int64, in StatusInput) (*models.Reminder, error) {
	in.Status = strings.TrimSpace(in.Status)
	if err := s.valid.check(&in); err != nil {
		return nil, err
	}

	reminder, err := s.stores.Reminders.GetByID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	wasCompleted := reminder.IsCompleted()
	reminder.Status = models.ReminderStatus(in.Status)

	var next *time.Time
	if reminder.IsCompleted() && !wasCompleted && reminder.IsRecurring() && reminder.DueDate != nil {
		next, err = rrule.Next(reminder.RecurrenceRule, *reminder.DueDate, *reminder.DueDate)
		if err != nil {
			s.log.Warn("failed to compute next occurrence", zap.Int64("reminder_id", reminderID), zap.Error(err))
		}
	}
	rule := reminder.RecurrenceRule
	if next != nil {
		reminder.RecurrenceRule = ""
	}

	if err := s.stores.Reminders.Update(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to update reminder %d: %w", reminderID, err)
	}

	result := reminder
	if next != nil {
		occurrence := &models.Reminder{
			LeadID:         reminder.LeadID,
			LeadName:       reminder.LeadName,
			Type:           reminder.Type,
			DueDate:        next,
			Status:         models.ReminderPending,
			Notes:          reminder.Notes,
			RecurrenceRule: rule,
		}
		if err := s.stores.Reminders.Create(ctx, occurrence); err != nil {
			return nil, fmt.Errorf("failed to create next occurrence of reminder %d: %w", reminderID, err)
		}
		s.log.Info("scheduled next occurrence",
			zap.Int64("reminder_id", reminderID),
			zap.Int64("next_reminder_id", occurrence.ReminderID),
			zap.Time("due", *next))
		result = occurrence
	}

	s.mirror(ctx, reminder.LeadID)
	s.poke()
	return result, nil
}

// mirror copies the lead's most recently created reminder onto the lead for dashboard
// display.
func (s *Service) mirror(ctx context.Context, leadID int64) {
	reminders, err := s.stores.Reminders.ListByLead(ctx, leadID)
	if err != nil {
		s.log.Warn("failed to list reminders for mirror", zap.Int64("lead_id", leadID), zap.Error(err))
		return
	}
	if len(reminders) == 0 {
		return
	}
	latest := reminders[len(reminders)-1]
	if err := s.stores.Leads.SetReminderMirror(ctx, leadID, latest.Type, latest.DueDate, latest.Notes); err != nil {
		s.log.Warn("failed to mirror reminder on lead",
			zap.Int64("reminder_id", latest.ReminderID), zap.Int64("lead_id", leadID), zap.Error(err))
	}
}
