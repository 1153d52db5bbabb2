package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type LeadRepository struct {
	db *DB
}

func (r *LeadRepository) Create(_ context.Context, lead *models.Lead) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	lead.LeadID = r.db.nextID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	stored := *lead
	r.db.leads[lead.LeadID] = &stored
	return nil
}

func (r *LeadRepository) GetByID(_ context.Context, leadID int64) (*models.Lead, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	lead, ok := r.db.leads[leadID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *lead
	return &cp, nil
}

func (r *LeadRepository) List(_ context.Context) ([]*models.Lead, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	leads := make([]*models.Lead, 0, len(r.db.leads))
	for _, lead := range r.db.leads {
		cp := *lead
		leads = append(leads, &cp)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].LeadID > leads[j].LeadID })
	return leads, nil
}

func (r *LeadRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.leads), nil
}

func (r *LeadRepository) Update(_ context.Context, lead *models.Lead) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.leads[lead.LeadID]
	if !ok {
		return models.ErrNotFound
	}
	lead.CreatedAt = existing.CreatedAt
	lead.ReminderType = existing.ReminderType
	lead.ReminderDue = existing.ReminderDue
	lead.ReminderNotes = existing.ReminderNotes
	lead.UpdatedAt = r.db.now()
	stored := *lead
	r.db.leads[lead.LeadID] = &stored
	return nil
}

func (r *LeadRepository) SetReminderMirror(_ context.Context, leadID int64, reminderType string, due *time.Time, notes string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	lead, ok := r.db.leads[leadID]
	if !ok {
		return models.ErrNotFound
	}
	lead.ReminderType = reminderType
	lead.ReminderDue = due
	lead.ReminderNotes = notes
	return nil
}

// Delete removes the lead and, like the SQL foreign key, its reminders.
func (r *LeadRepository) Delete(_ context.Context, leadID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.leads[leadID]; !ok {
		return models.ErrNotFound
	}
	delete(r.db.leads, leadID)
	for id, reminder := range r.db.reminders {
		if reminder.LeadID == leadID {
			delete(r.db.reminders, id)
		}
	}
	return nil
}
