// Package crm is the application layer over the lead, group, reminder and notification
// stores. Every lead or group write is followed by group derivation and reassignment;
// side effects that follow a successful write are best-effort and only logged.
package crm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/grouping"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	"go.uber.org/zap"
)

type LeadStore interface {
	grouping.LeadLister
	notify.LeadCounter
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, leadID int64) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, leadID int64) error
	SetReminderMirror(ctx context.Context, leadID int64, reminderType string, due *time.Time, notes string) error
}

type GroupStore interface {
	grouping.GroupStore
	Insert(ctx context.Context, group *models.Group) (bool, error)
	GetByID(ctx context.Context, groupID int64) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, groupID int64) error
}

type ReminderStore interface {
	notify.ReminderSource
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, reminderID int64) (*models.Reminder, error)
	List(ctx context.Context) ([]*models.Reminder, error)
	// ListByLead returns the lead's reminders oldest first.
	ListByLead(ctx context.Context, leadID int64) ([]*models.Reminder, error)
	Update(ctx context.Context, reminder *models.Reminder) error
}

type NotificationStore interface {
	notify.Store
	List(ctx context.Context, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, ids []int64) (int64, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

type Stores struct {
	Leads         LeadStore
	Groups        GroupStore
	Reminders     ReminderStore
	Notifications NotificationStore
}

// Trigger asks for an out-of-band notification scan, e.g. scheduler.Scheduler.
type Trigger interface {
	Notify()
}

type Service struct {
	stores     Stores
	engine     *grouping.Engine
	scanner    *notify.Scanner
	reporter   *notify.Reporter
	publishers []notify.Publisher
	trigger    Trigger
	valid      *validation
	log        *zap.Logger
	now        func() time.Time
}

func New(stores Stores, logger *zap.Logger, publishers ...notify.Publisher) *Service {
	return &Service{
		stores:     stores,
		engine:     grouping.NewEngine(stores.Leads, stores.Groups, logger),
		scanner:    notify.NewScanner(stores.Leads, stores.Reminders, stores.Notifications, logger, publishers...),
		reporter:   notify.NewReporter(stores.Leads, stores.Reminders, stores.Notifications, logger, publishers...),
		publishers: publishers,
		valid:      newValidation(),
		log:        logger,
		now:        time.Now,
	}
}

// SetTrigger registers who is poked after writes that may raise notifications.
func (s *Service) SetTrigger(t Trigger) {
	s.trigger = t
}

func (s *Service) poke() {
	if s.trigger != nil {
		s.trigger.Notify()
	}
}

// SyncResult reports one Auto-Create & Assign run.
type SyncResult struct {
	Created    []*models.Group      `json:"created"`
	Assignment *grouping.Assignment `json:"assignment"`
}

// AutoCreateAndAssign derives missing groups and reassigns every group. Store failures
// are returned; the run is safe to repeat.
func (s *Service) AutoCreateAndAssign(ctx context.Context) (*SyncResult, error) {
	created, assignment, err := s.engine.Sync(ctx)
	if len(created) > 0 {
		s.announceGroups(ctx, created)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sync groups: %w", err)
	}
	return &SyncResult{Created: created, Assignment: assignment}, nil
}

// resync runs after a successful lead or group write. Failures are logged only; the
// next write or an explicit Auto-Create & Assign repairs the state.
func (s *Service) resync(ctx context.Context, reason string) {
	if _, err := s.AutoCreateAndAssign(ctx); err != nil {
		s.log.Warn("group resync failed", zap.String("reason", reason), zap.Error(err))
	}
}

// reassign refreshes membership without deriving new groups.
func (s *Service) reassign(ctx context.Context, reason string) {
	if _, err := s.engine.Assigner.Assign(ctx); err != nil {
		s.log.Warn("group reassignment failed", zap.String("reason", reason), zap.Error(err))
	}
}

// announceGroups records a group_creation notification. It never fails the caller.
func (s *Service) announceGroups(ctx context.Context, created []*models.Group) {
	keys := make([]string, 0, len(created))
	names := make([]string, 0, len(created))
	for _, g := range created {
		keys = append(keys, string(g.Type)+":"+g.Criteria)
		names = append(names, g.Name)
	}
	sort.Strings(keys)

	title := "New group created"
	if len(created) > 1 {
		title = fmt.Sprintf("%d new groups created", len(created))
	}
	n := models.NewNotification(models.NotificationGroupCreation, title,
		"Created automatically: "+strings.Join(names, ", "),
		models.Meta{"groups": keys},
	)
	inserted, err := s.stores.Notifications.Insert(ctx, n)
	if err != nil {
		s.log.Warn("failed to record group creation notification", zap.Error(err))
		return
	}
	if inserted {
		notify.Publish(ctx, s.log, s.publishers, n)
	}
}
