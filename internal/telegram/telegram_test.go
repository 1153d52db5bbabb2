package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/abdulwasay100/leadcrm/internal/crm"
	"github.com/abdulwasay100/leadcrm/internal/grouping"
	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/abdulwasay100/leadcrm/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

type fakeService struct {
	groups  []*models.Group
	unread  []*models.Notification
	scanErr error
}

func (f *fakeService) Scan(context.Context) (*notify.Result, error) {
	return &notify.Result{Threshold: []*models.Notification{{}}}, f.scanErr
}

func (f *fakeService) AutoCreateAndAssign(context.Context) (*crm.SyncResult, error) {
	return &crm.SyncResult{
		Created:    []*models.Group{{Name: "Lahore Leads"}},
		Assignment: &grouping.Assignment{Changed: 3, Invalid: []int64{9}},
	}, nil
}

func (f *fakeService) ListGroups(context.Context) ([]*models.Group, error) {
	return f.groups, nil
}

func (f *fakeService) ListNotifications(_ context.Context, unreadOnly bool, limit int) ([]*models.Notification, error) {
	if !unreadOnly || limit != unreadLimit {
		return nil, errors.New("unexpected query")
	}
	return f.unread, nil
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func newTestBot(svc Service, adminID int64) (*Bot, *fakeSender) {
	sender := &fakeSender{}
	return &Bot{send: sender, svc: svc, adminID: adminID, log: zap.NewNop()}, sender
}

func TestForwarder_Publish(t *testing.T) {
	sender := &fakeSender{}
	f := NewForwarder(sender, -1001)

	n := models.NewNotification(models.NotificationLeadCount, "50 leads reached", "Your lead count has reached 50.", models.Meta{"count": 50})
	require.NoError(t, f.Publish(context.Background(), n))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(-1001), msg.ChatID)
	assert.Equal(t, "📈 50 leads reached\n\nYour lead count has reached 50.", msg.Text)
	assert.Equal(t, []tgbotapi.MessageEntity{{Type: "bold", Offset: 3, Length: 16}}, msg.Entities)

	sender.err = errors.New("chat not found")
	assert.Error(t, f.Publish(context.Background(), n))
}

func TestBot_Commands(t *testing.T) {
	svc := &fakeService{
		groups: []*models.Group{{Name: "Age 9-12", LeadCount: 4}, {Name: "Robotics Course", LeadCount: 0}},
		unread: []*models.Notification{{Title: "Reminder due within 1 hour", Message: "Call with Ali"}},
	}
	b, sender := newTestBot(svc, 42)
	ctx := context.Background()

	b.handleUpdate(ctx, command(42, "/groups"))
	b.handleUpdate(ctx, command(42, "/assign"))
	b.handleUpdate(ctx, command(42, "/unread"))
	b.handleUpdate(ctx, command(42, "/scan"))
	b.handleUpdate(ctx, command(42, "/nope"))

	require.Len(t, sender.sent, 5)
	assert.Equal(t, "Groups (2)\n\n• Age 9-12 4\n• Robotics Course 0", sender.sent[0].Text)
	assert.Equal(t, "1 groups created, 3 groups changed.\n1 groups have unreadable age criteria.", sender.sent[1].Text)
	assert.Equal(t, "Unread notifications\n\n• Reminder due within 1 hour Call with Ali", sender.sent[2].Text)
	assert.Contains(t, sender.sent[2].Entities, tgbotapi.MessageEntity{Type: "italic", Offset: 51, Length: 13})
	assert.Equal(t, "Scan finished: 1 milestone and 0 reminder notifications created.", sender.sent[3].Text)
	assert.Contains(t, sender.sent[4].Text, "/help")
}

func TestBot_IgnoresOtherChatsAndPlainText(t *testing.T) {
	b, sender := newTestBot(&fakeService{}, 42)
	ctx := context.Background()

	b.handleUpdate(ctx, command(7, "/scan"))
	b.handleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 42}}})
	b.handleUpdate(ctx, tgbotapi.Update{})
	assert.Empty(t, sender.sent)
}

func TestBot_ScanFailureIsReported(t *testing.T) {
	b, sender := newTestBot(&fakeService{scanErr: errors.New("db down")}, 0)
	b.handleUpdate(context.Background(), command(99, "/scan"))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Some checks failed")
}
