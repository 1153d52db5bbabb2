// Package queue publishes new notifications to a RabbitMQ queue for downstream senders
// (email, SMS) that live outside this service.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdulwasay100/leadcrm/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Message is the queued body.
type Message struct {
	NotificationID int64                   `json:"notification_id"`
	Type           models.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Meta           models.Meta             `json:"meta"`
	CreatedAt      time.Time               `json:"created_at"`
}

type Publisher struct {
	ch    Channel
	queue string
	close func() error
}

func NewPublisher(ch Channel, queue string) *Publisher {
	return &Publisher{ch: ch, queue: queue, close: func() error { return nil }}
}

// Dial connects to url and declares a durable queue.
func Dial(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	p := NewPublisher(ch, queue)
	p.close = conn.Close
	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, n *models.Notification) error {
	body, err := json.Marshal(Message{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		Meta:           n.Meta,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal queue message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%d", n.Type, n.NotificationID),
		Timestamp:    n.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification %d: %w", n.NotificationID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.close()
}
