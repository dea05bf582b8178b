// Package events publishes directory domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys.
const (
	ServiceCreated = "service.created"
	UserRegistered = "user.registered"
)

// ServiceCreatedEvent is published after a record is stored.
type ServiceCreatedEvent struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"serviceName"`
	Pincode     string    `json:"pincode"`
	ServiceType string    `json:"serviceType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRegisteredEvent is published after an account is created.
type UserRegisteredEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Publisher sends JSON events keyed by routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// AMQPPublisher publishes to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// New returns an AMQP publisher, or a no-op publisher when url is empty.
func New(url, exchange string) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	return NewAMQPPublisher(url, exchange)
}

// NewAMQPPublisher dials RabbitMQ and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishJSON(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }
