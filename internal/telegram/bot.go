// Package telegram forwards notifications to an admin chat and answers a few admin
// commands there.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/format"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Service is what the admin commands need from *crm.Service.
type Service interface {
	Scan(ctx context.Context) (*notify.Result, error)
	AutoCreateAndAssign(ctx context.Context) (*crm.SyncResult, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*models.Notification, error)
}

const unreadLimit = 10

type Bot struct {
	api     *tgbotapi.BotAPI
	send    Sender
	svc     Service
	adminID int64
	log     *zap.Logger
}

// New creates the admin bot. Commands are accepted from adminChatID only, or from any
// chat when it is zero.
func New(api *tgbotapi.BotAPI, adminChatID int64, svc Service, logger *zap.Logger) *Bot {
	return &Bot{api: api, send: api, svc: svc, adminID: adminChatID, log: logger}
}

func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("telegram bot authorized", zap.String("account", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	if b.adminID != 0 && msg.Chat.ID != b.adminID {
		b.log.Warn("ignoring command from unknown chat", zap.Int64("chat_id", msg.Chat.ID))
		return
	}
	b.reply(msg.Chat.ID, b.handleCommand(ctx, msg.Command()))
}

func (b *Bot) handleCommand(ctx context.Context, command string) *format.Message {
	switch command {
	case "start", "help":
		return helpMessage()
	case "scan":
		return b.handleScan(ctx)
	case "assign":
		return b.handleAssign(ctx)
	case "groups":
		return b.handleGroups(ctx)
	case "unread":
		return b.handleUnread(ctx)
	default:
		return (&format.Message{}).Text("Unknown command. Use /help to see the available commands.")
	}
}

func helpMessage() *format.Message {
	m := &format.Message{}
	m.Bold("Lead CRM").Line().Line()
	m.Code("/scan").Text(" run the notification scans").Line()
	m.Code("/assign").Text(" auto-create groups and reassign leads").Line()
	m.Code("/groups").Text(" list groups and their sizes").Line()
	m.Code("/unread").Text(" show unread notifications")
	return m
}

func (b *Bot) handleScan(ctx context.Context) *format.Message {
	m := &format.Message{}
	result, err := b.svc.Scan(ctx)
	if result != nil {
		m.Text(fmt.Sprintf("Scan finished: %d milestone and %d reminder notifications created.",
			len(result.Threshold), len(result.DueSoon)))
	}
	if err != nil {
		b.log.Warn("scan command failed", zap.Error(err))
		m.Line().Text("Some checks failed, see the server log.")
	}
	return m
}

func (b *Bot) handleAssign(ctx context.Context) *format.Message {
	m := &format.Message{}
	result, err := b.svc.AutoCreateAndAssign(ctx)
	if err != nil {
		b.log.Error("assign command failed", zap.Error(err))
		return m.Text("Auto-create and assign failed.")
	}
	m.Text(fmt.Sprintf("%d groups created, %d groups changed.", len(result.Created), result.Assignment.Changed))
	if len(result.Assignment.Invalid) > 0 {
		m.Line().Text(fmt.Sprintf("%d groups have unreadable age criteria.", len(result.Assignment.Invalid)))
	}
	return m
}

func (b *Bot) handleGroups(ctx context.Context) *format.Message {
	m := &format.Message{}
	groups, err := b.svc.ListGroups(ctx)
	if err != nil {
		b.log.Error("groups command failed", zap.Error(err))
		return m.Text("Failed to list groups.")
	}
	if len(groups) == 0 {
		return m.Text("No groups yet.")
	}
	m.Bold(fmt.Sprintf("Groups (%d)", len(groups))).Line()
	for _, g := range groups {
		m.Line().Text("• " + g.Name + " ").Code(fmt.Sprintf("%d", g.LeadCount))
	}
	return m
}

func (b *Bot) handleUnread(ctx context.Context) *format.Message {
	m := &format.Message{}
	list, err := b.svc.ListNotifications(ctx, true, unreadLimit)
	if err != nil {
		b.log.Error("unread command failed", zap.Error(err))
		return m.Text("Failed to list notifications.")
	}
	if len(list) == 0 {
		return m.Text("No unread notifications.")
	}
	m.Bold("Unread notifications").Line()
	for _, n := range list {
		m.Line().Text("• ").Bold(n.Title)
		if n.Message != "" {
			m.Text(" ").Italic(strings.TrimSpace(n.Message))
		}
	}
	return m
}

func (b *Bot) reply(chatID int64, m *format.Message) {
	if _, err := b.send.Send(m.Config(chatID)); err != nil {
		b.log.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
