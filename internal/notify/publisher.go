package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/clinicbook/appointment-platform/internal/config"
)

// BookingEvent — событие о бронировании для внешних потребителей
// (рассылка писем и т.п.). Само письмо формирует потребитель.
type BookingEvent struct {
	Type       string    `json:"type"` // booking_created | booking_cancelled
	BookingID  string    `json:"bookingId"`
	ProviderID string    `json:"providerId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
	Close() error
}

// AmqpPublisher публикует события в очередь RabbitMQ.
type AmqpPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

func NewAmqpPublisher(cfg *config.Config, logger *zap.Logger) (*AmqpPublisher, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = channel.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AmqpPublisher{
		conn:    conn,
		channel: channel,
		queue:   cfg.RabbitMQ.Queue,
		logger:  logger,
	}, nil
}

func (p *AmqpPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("notify.publish.failed",
			zap.String("type", event.Type),
			zap.String("bookingId", event.BookingID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Debug("notify.publish.ok",
		zap.String("type", event.Type),
		zap.String("bookingId", event.BookingID),
	)
	return nil
}

func (p *AmqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// NoopPublisher — заглушка, когда RabbitMQ выключен (и для тестов).
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
