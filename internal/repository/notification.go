package repository

import (
	"context"
	"errors"

	"github.com/abdulwasay100/leadcrm/internal/database"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Exists(ctx context.Context, t models.NotificationType, dedupKey string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE type = $1 AND dedup_key = $2)`,
		t, dedupKey,
	).Scan(&exists)
	return exists, err
}

// Insert appends a notification. The (type, dedup_key) constraint makes a repeat insert
// a no-op that reports false.
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) (bool, error) {
	if n.DedupKey == "" {
		n.DedupKey = n.Meta.Key()
	}
	meta := n.Meta
	if meta == nil {
		meta = models.Meta{}
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO notifications (type, title, message, meta, dedup_key)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (type, dedup_key) DO NOTHING
		 RETURNING notification_id, is_read, created_at`,
		n.Type, n.Title, n.Message, meta, n.DedupKey,
	).Scan(&n.NotificationID, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns newest first; limit <= 0 means no limit.
func (r *NotificationRepository) List(ctx context.Context, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := `SELECT notification_id, type, title, message, meta, dedup_key, is_read, created_at
		 FROM notifications`
	if unreadOnly {
		query += ` WHERE NOT is_read`
	}
	query += ` ORDER BY created_at DESC, notification_id DESC`

	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var t string
		if err := rows.Scan(&n.NotificationID, &t, &n.Title, &n.Message, &n.Meta, &n.DedupKey,
			&n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(t)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE notification_id = ANY($1) AND NOT is_read`,
		ids,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE NOT is_read`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
