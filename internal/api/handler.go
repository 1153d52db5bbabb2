// Package api is the JSON REST surface over the crm service.
package api

import (
	"context"

	"github.com/abdulwasay100/leadcrm/internal/ai"
	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	"go.uber.org/zap"
)

// Service is implemented by *crm.Service.
type Service interface {
	ListLeads(ctx context.Context) ([]*models.Lead, error)
	GetLead(ctx context.Context, leadID int64) (*models.Lead, error)
	CreateLead(ctx context.Context, in crm.LeadInput) (*models.Lead, error)
	UpdateLead(ctx context.Context, leadID int64, in crm.LeadInput) (*models.Lead, error)
	ConvertLead(ctx context.Context, leadID int64) (*models.Lead, error)
	DeleteLead(ctx context.Context, leadID int64) error

	ListGroups(ctx context.Context) ([]*models.Group, error)
	CreateGroup(ctx context.Context, in crm.GroupInput) (*models.Group, error)
	UpdateGroup(ctx context.Context, groupID int64, in crm.GroupInput) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID int64) error
	AutoCreateAndAssign(ctx context.Context) (*crm.SyncResult, error)
	GroupMembers(ctx context.Context, groupID int64) (*models.Group, []*models.Lead, error)

	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*models.Notification, error)
	CreateNotification(ctx context.Context, in crm.NotificationInput) (*models.Notification, error)
	MarkRead(ctx context.Context, in crm.MarkReadInput) (int64, error)
	Scan(ctx context.Context) (*notify.Result, error)
	DailyReport(ctx context.Context) (*models.Notification, error)

	ListReminders(ctx context.Context) ([]*models.Reminder, error)
	CreateReminder(ctx context.Context, in crm.ReminderInput) (*models.Reminder, error)
	SetReminderStatus(ctx context.Context, reminderID int64, in crm.StatusInput) (*models.Reminder, error)
}

// LeadParser is implemented by *ai.Client.
type LeadParser interface {
	ParseLead(ctx context.Context, text string) (*ai.LeadDraft, error)
}

// Pinger reports store health, e.g. *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Limiter is implemented by *ratelimit.Limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Handler holds dependencies shared by all endpoints. Parser, DB and Limiter may be nil.
type Handler struct {
	Svc     Service
	Parser  LeadParser
	DB      Pinger
	Limiter Limiter
	Log     *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc Service, parser LeadParser, db Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:    svc,
		Parser: parser,
		DB:     db,
		Log:    logger,
	}
}
