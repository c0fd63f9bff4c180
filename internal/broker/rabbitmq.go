// Package broker fans order status updates out to external subscribers.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"canteen/internal/model"
)

const NotificationsExchange = "notifications_fanout"

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("failed to connect to RabbitMQ, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		NotificationsExchange, // name
		"fanout",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: ch}, nil
}

func (r *RabbitMQ) PublishStatusUpdate(ctx context.Context, update model.StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = r.channel.PublishWithContext(ctx,
		NotificationsExchange, // exchange
		"",                    // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			MessageId:    update.OrderID + ":" + string(update.NewStatus),
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    update.Timestamp,
		})
	if err != nil {
		return fmt.Errorf("publish status update: %w", err)
	}

	slog.Debug("status update published", "order", update.OrderID, "status", update.NewStatus)
	return nil
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

// LogPublisher writes status updates to the structured log when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishStatusUpdate(_ context.Context, u model.StatusUpdate) error {
	slog.Info("status update",
		"order", u.OrderID,
		"from", u.OldStatus,
		"to", u.NewStatus,
		"by", u.ChangedBy,
		"forced", u.Forced,
		"eta", u.EstimatedCompletion.Format(time.RFC3339),
	)
	return nil
}
