// Package memstore keeps leads, groups, reminders and notifications in process memory.
// Its repositories mirror the method sets of internal/repository so either can back the
// engine; it is used by tests and when no DATABASE_URI is configured.
package memstore

import (
	"sync"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type DB struct {
	mu            sync.RWMutex
	seq           int64
	leads         map[int64]*models.Lead
	groups        map[int64]*models.Group
	reminders     map[int64]*models.Reminder
	notifications map[int64]*models.Notification
	now           func() time.Time
}

func New() *DB {
	return &DB{
		leads:         make(map[int64]*models.Lead),
		groups:        make(map[int64]*models.Group),
		reminders:     make(map[int64]*models.Reminder),
		notifications: make(map[int64]*models.Notification),
		now:           time.Now,
	}
}

// SetClock overrides the timestamp source for created_at/updated_at.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// nextID must be called with mu held for writing.
func (db *DB) nextID() int64 {
	db.seq++
	return db.seq
}

func (db *DB) Leads() *LeadRepository {
	return &LeadRepository{db: db}
}

func (db *DB) Groups() *GroupRepository {
	return &GroupRepository{db: db}
}

func (db *DB) Reminders() *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (db *DB) Notifications() *NotificationRepository {
	return &NotificationRepository{db: db}
}
