package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

type NotificationType string

const (
	NotificationLeadCount      NotificationType = "no_leads"
	NotificationReminderStatus NotificationType = "reminder_status"
	NotificationReports        NotificationType = "reports"
	NotificationGroupCreation  NotificationType = "group_creation"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLeadCount, NotificationReminderStatus, NotificationReports, NotificationGroupCreation:
		return true
	}
	return false
}

// Meta is the structured payload a notification is de-duplicated by.
type Meta map[string]any

// Key canonicalizes the meta into a stable string: keys sorted, keys and values
// JSON-encoded so separators inside either cannot collide.
// Numbers encode the same whether they came from Go ints or decoded JSON floats.
func (m Meta) Key() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		v, err := json.Marshal(m[k])
		if err != nil {
			v = []byte("null")
		}
		name, _ := json.Marshal(k)
		b.Write(name)
		b.WriteByte('=')
		b.Write(v)
	}
	return b.String()
}

type Notification struct {
	NotificationID int64            `json:"id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Meta           Meta             `json:"meta"`
	DedupKey       string           `json:"-"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewNotification builds an unsaved notification with its dedup key filled in.
func NewNotification(t NotificationType, title, message string, meta Meta) *Notification {
	if meta == nil {
		meta = Meta{}
	}
	return &Notification{
		Type:     t,
		Title:    title,
		Message:  message,
		Meta:     meta,
		DedupKey: meta.Key(),
	}
}
