package telegram

import (
	"context"
	"fmt"

	"github.com/abdulwasay100/leadcrm/internal/format"
	"github.com/abdulwasay100/leadcrm/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var icons = map[models.NotificationType]string{
	models.NotificationLeadCount:      "📈",
	models.NotificationReminderStatus: "⏰",
	models.NotificationReports:        "📋",
	models.NotificationGroupCreation:  "👥",
}

// Forwarder posts every new notification to one chat.
type Forwarder struct {
	api    Sender
	chatID int64
}

func NewForwarder(api Sender, chatID int64) *Forwarder {
	return &Forwarder{api: api, chatID: chatID}
}

func (f *Forwarder) Publish(_ context.Context, n *models.Notification) error {
	if _, err := f.api.Send(notificationMessage(n).Config(f.chatID)); err != nil {
		return fmt.Errorf("failed to forward notification %d: %w", n.NotificationID, err)
	}
	return nil
}

func notificationMessage(n *models.Notification) *format.Message {
	m := &format.Message{}
	if icon, ok := icons[n.Type]; ok {
		m.Text(icon + " ")
	}
	m.Bold(n.Title)
	if n.Message != "" {
		m.Line().Line().Text(n.Message)
	}
	return m
}
