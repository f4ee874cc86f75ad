package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/models"
)

// Notifier publishes a run.completed message after each successful upload so
// downstream consumers can refresh without polling the object store.
type Notifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewNotifier connects to the broker and declares the exchange (idempotent).
func NewNotifier(url, exchange string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info().Str("exchange", exchange).Msg("Run notifier initialized")

	return &Notifier{conn: conn, channel: channel, exchange: exchange}, nil
}

// RunCompleted publishes the run summary with routing key run.completed.
func (n *Notifier) RunCompleted(ctx context.Context, event models.RunCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,
		"run.completed",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			MessageId:    event.RunID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	log.Info().
		Str("run_id", event.RunID).
		Int("events", event.Events).
		Msg("Run notification published")

	return nil
}

// Close closes the broker connection.
func (n *Notifier) Close() error {
	if n.channel != nil {
		if err := n.channel.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}
	if n.conn != nil {
		if err := n.conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close RabbitMQ connection")
			return err
		}
	}
	return nil
}
