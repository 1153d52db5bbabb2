package memstore

import (
	"context"
	"maps"
	"sort"

	"github.com/abdulwasay100/leadcrm/internal/models"
)

type NotificationRepository struct {
	db *DB
}

func (r *NotificationRepository) Exists(_ context.Context, t models.NotificationType, dedupKey string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.exists(t, dedupKey), nil
}

// exists must be called with mu held.
func (r *NotificationRepository) exists(t models.NotificationType, dedupKey string) bool {
	for _, n := range r.db.notifications {
		if n.Type == t && n.DedupKey == dedupKey {
			return true
		}
	}
	return false
}

func (r *NotificationRepository) Insert(_ context.Context, n *models.Notification) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if n.Meta == nil {
		n.Meta = models.Meta{}
	}
	if n.DedupKey == "" {
		n.DedupKey = n.Meta.Key()
	}
	if r.exists(n.Type, n.DedupKey) {
		return false, nil
	}
	n.NotificationID = r.db.nextID()
	n.IsRead = false
	n.CreatedAt = r.db.now()
	stored := *n
	stored.Meta = maps.Clone(n.Meta)
	r.db.notifications[n.NotificationID] = &stored
	return true, nil
}

func (r *NotificationRepository) List(_ context.Context, unreadOnly bool, limit int) ([]*models.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*models.Notification
	for _, n := range r.db.notifications {
		if unreadOnly && n.IsRead {
			continue
		}
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NotificationID > out[j].NotificationID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, ids []int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var marked int64
	for _, id := range ids {
		if n, ok := r.db.notifications[id]; ok && !n.IsRead {
			n.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var marked int64
	for _, n := range r.db.notifications {
		if !n.IsRead {
			n.IsRead = true
			marked++
		}
	}
	return marked, nil
}
