// Package format builds Telegram messages with formatting entities instead of
// Markdown escaping, so lead names and notes never break the parse mode.
package format

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UTF16Len calculates the UTF-16 length of a string
// This is required because Telegram uses UTF-16 code units for entity offsets/lengths
func UTF16Len(s string) int {
	length := 0
	for _, r := range s {
		if r >= 0x10000 {
			length += 2 // surrogate pair
		} else {
			length++
		}
	}
	return length
}

// Message accumulates text and the entities that style parts of it.
type Message struct {
	text     strings.Builder
	offset   int
	entities []tgbotapi.MessageEntity
}

func (m *Message) add(s, entity string) *Message {
	n := UTF16Len(s)
	if entity != "" && n > 0 {
		m.entities = append(m.entities, tgbotapi.MessageEntity{Type: entity, Offset: m.offset, Length: n})
	}
	m.text.WriteString(s)
	m.offset += n
	return m
}

func (m *Message) Text(s string) *Message   { return m.add(s, "") }
func (m *Message) Bold(s string) *Message   { return m.add(s, "bold") }
func (m *Message) Italic(s string) *Message { return m.add(s, "italic") }
func (m *Message) Code(s string) *Message   { return m.add(s, "code") }

// Line ends the current line.
func (m *Message) Line() *Message { return m.add("\n", "") }

func (m *Message) String() string { return m.text.String() }

func (m *Message) Entities() []tgbotapi.MessageEntity { return m.entities }

// Config returns a send config for chatID carrying the text and entities.
func (m *Message) Config(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, m.String())
	msg.Entities = m.entities
	return msg
}
