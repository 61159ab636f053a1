package queue

import (
	"context"
	"encoding/json"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carkit/carkit-api/internal/logs"
)

const accountQueueName = "account.activity"

// Publisher publishes account events to RabbitMQ.  A nil *Publisher is a
// valid disabled publisher: Publish becomes a no-op, which is how tests and
// broker-less deployments run.
type Publisher struct {
	url string
}

// NewPublisher reads the broker URL from RABBITMQ_URL (or AMQP_URL) and
// returns nil when neither is set.
func NewPublisher() *Publisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// Publish sends one persistent JSON message to the account.activity queue.
// Errors are logged and returned so callers can ignore them; event delivery
// must never fail the request that produced the event.
func (p *Publisher) Publish(ctx context.Context, ev AccountEvent) error {
	if p == nil {
		return nil
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logs.Logger.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logs.Logger.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(accountQueueName, true, false, false, false, nil); err != nil {
		logs.Logger.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", accountQueueName, false, false, pub); err != nil {
		logs.Logger.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
