package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher publishes agenda sync requests with publisher confirms,
// so Publish only returns nil once the broker has taken the message.
type RabbitMQPublisher struct {
	client *RabbitMQ
	now    func() time.Time
}

func NewRabbitMQPublisher(client *RabbitMQ) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client, now: time.Now}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, queue string, msg AgendaSyncMessage) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("publisher is not initialized")
	}
	if queue == "" {
		return fmt.Errorf("queue name is required")
	}

	publishing, err := p.newPublishing(msg)
	if err != nil {
		return err
	}

	ch, err := p.client.channel(ctx)
	if err != nil {
		return err
	}
	defer ch.Close() //nolint:errcheck

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, true, false, publishing)
	if err != nil {
		return fmt.Errorf("failed to publish to %q: %w", queue, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for confirm from %q: %w", queue, err)
	}
	if !acked {
		return fmt.Errorf("broker refused agenda sync for event %s", msg.EventID)
	}

	return nil
}

func (p *RabbitMQPublisher) newPublishing(msg AgendaSyncMessage) (amqp.Publishing, error) {
	if err := msg.Validate(); err != nil {
		return amqp.Publishing{}, fmt.Errorf("invalid agenda sync message: %w", err)
	}
	if msg.RequestedAt.IsZero() {
		msg.RequestedAt = p.now().UTC()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode agenda sync message: %w", err)
	}

	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     msg.RequestedAt,
		MessageId:     uuid.NewString(),
		CorrelationId: msg.CorrelationID,
		Type:          "agenda.sync",
		Body:          body,
	}, nil
}

func (p *RabbitMQPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
