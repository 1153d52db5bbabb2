package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type ReminderRepository struct {
	db *DB
}

func (r *ReminderRepository) Create(_ context.Context, reminder *models.Reminder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.leads[reminder.LeadID]; !ok {
		return models.ErrNotFound
	}
	reminder.ReminderID = r.db.nextID()
	reminder.CreatedAt = r.db.now()
	stored := *reminder
	r.db.reminders[reminder.ReminderID] = &stored
	return nil
}

func (r *ReminderRepository) GetByID(_ context.Context, reminderID int64) (*models.Reminder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	reminder, ok := r.db.reminders[reminderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *reminder
	return &cp, nil
}

func (r *ReminderRepository) List(_ context.Context) ([]*models.Reminder, error) {
	return r.filter(func(*models.Reminder) bool { return true }), nil
}

func (r *ReminderRepository) ListByLead(_ context.Context, leadID int64) ([]*models.Reminder, error) {
	out := r.filter(func(rem *models.Reminder) bool { return rem.LeadID == leadID })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ReminderID < out[j].ReminderID
	})
	return out, nil
}

func (r *ReminderRepository) Update(_ context.Context, reminder *models.Reminder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.reminders[reminder.ReminderID]
	if !ok {
		return models.ErrNotFound
	}
	existing.Type = reminder.Type
	existing.DueDate = reminder.DueDate
	existing.Status = reminder.Status
	existing.Notes = reminder.Notes
	existing.RecurrenceRule = reminder.RecurrenceRule
	return nil
}

func (r *ReminderRepository) ListActiveDueBefore(_ context.Context, until time.Time) ([]*models.Reminder, error) {
	return r.filter(func(rem *models.Reminder) bool {
		return !rem.IsCompleted() && rem.DueDate != nil && !rem.DueDate.After(until)
	}), nil
}

// filter returns copies ordered by due date, undated last.
func (r *ReminderRepository) filter(keep func(*models.Reminder) bool) []*models.Reminder {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*models.Reminder
	for _, rem := range r.db.reminders {
		if keep(rem) {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil && b == nil:
			return out[i].ReminderID < out[j].ReminderID
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return out
}
