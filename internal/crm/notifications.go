package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
)

// NotificationInput records a manual notification, e.g. a generated report.
type NotificationInput struct {
	Type    string      `json:"type" validate:"required,notification_type"`
	Title   string      `json:"title" validate:"required,max=200"`
	Message string      `json:"message"`
	Meta    models.Meta `json:"meta"`
}

// MarkReadInput selects notifications by id, or all of them.
type MarkReadInput struct {
	IDs []int64 `json:"ids" validate:"required_without=All,dive,gt=0"`
	All bool    `json:"all"`
}

func (s *Service) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*models.Notification, error) {
	list, err := s.stores.Notifications.List(ctx, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

// CreateNotification returns the stored notification, or nil when an identical one exists.
func (s *Service) CreateNotification(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.valid.check(&in); err != nil {
		return nil, err
	}

	n := models.NewNotification(models.NotificationType(in.Type), in.Title, in.Message, in.Meta)
	inserted, err := s.stores.Notifications.Insert(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if !inserted {
		return nil, nil
	}
	notify.Publish(ctx, s.log, s.publishers, n)
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, in MarkReadInput) (int64, error) {
	if err := s.valid.check(&in); err != nil {
		return 0, err
	}

	var (
		n   int64
		err error
	)
	if in.All {
		n, err = s.stores.Notifications.MarkAllRead(ctx)
	} else {
		n, err = s.stores.Notifications.MarkRead(ctx, in.IDs)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// Scan runs both notification scans. A partial result is returned alongside any error.
func (s *Service) Scan(ctx context.Context) (*notify.Result, error) {
	return s.scanner.Scan(ctx)
}

// DailyReport records today's reports notification, or returns nil if it exists.
func (s *Service) DailyReport(ctx context.Context) (*models.Notification, error) {
	n, err := s.reporter.Daily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to write daily report: %w", err)
	}
	return n, nil
}
