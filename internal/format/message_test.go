package format

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 5, UTF16Len("hello"))
	assert.Equal(t, 4, UTF16Len("Zoë!"))
	assert.Equal(t, 2, UTF16Len("🔔"))
	assert.Equal(t, 0, UTF16Len(""))
}

func TestMessage_Entities(t *testing.T) {
	m := &Message{}
	m.Text("🔔 ").Bold("Reminder due").Line().Text("Call with ").Code("#42").Italic("").Text(" ").Italic("Zoë")

	assert.Equal(t, "🔔 Reminder due\nCall with #42 Zoë", m.String())
	assert.Equal(t, []tgbotapi.MessageEntity{
		{Type: "bold", Offset: 3, Length: 12},
		{Type: "code", Offset: 26, Length: 3},
		{Type: "italic", Offset: 30, Length: 3},
	}, m.Entities())

	cfg := m.Config(-100)
	assert.Equal(t, int64(-100), cfg.ChatID)
	assert.Equal(t, m.String(), cfg.Text)
	assert.Len(t, cfg.Entities, 3)
}
