package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var errDeliveriesClosed = errors.New("delivery channel closed")

type RabbitMQConsumer struct {
	client   *RabbitMQ
	prefetch int
	logger   *zap.Logger
}

func NewRabbitMQConsumer(client *RabbitMQ, prefetch int, logger *zap.Logger) *RabbitMQConsumer {
	if prefetch < 1 {
		prefetch = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RabbitMQConsumer{
		client:   client,
		prefetch: prefetch,
		logger:   logger,
	}
}

// Consume blocks until ctx is done, resubscribing with backoff whenever the
// channel or connection is lost.
func (c *RabbitMQConsumer) Consume(ctx context.Context, queue string, handler MessageHandler) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if queue == "" {
		return fmt.Errorf("queue name is required")
	}
	if handler == nil {
		return fmt.Errorf("message handler is required")
	}

	wait := reconnectBackoff
	for {
		err := c.subscribe(ctx, queue, handler)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, errDeliveriesClosed) {
			wait = reconnectBackoff
		}

		c.logger.Warn("agenda consumer resubscribing",
			zap.String("queue", queue),
			zap.Error(err),
			zap.Duration("retryIn", wait),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
		wait = min(wait*2, maxBackoff)
	}
}

func (c *RabbitMQConsumer) subscribe(ctx context.Context, queue string, handler MessageHandler) error {
	ch, err := c.client.channel(ctx)
	if err != nil {
		return err
	}
	defer ch.Close() //nolint:errcheck

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			if err := c.handleDelivery(ctx, d, handler); err != nil {
				return err
			}
		}
	}
}

// handleDelivery settles d exactly once. Undecodable messages and handler
// errors wrapping ErrDeadLetter are rejected without requeue; other handler
// errors are requeued unless the message was already redelivered.
func (c *RabbitMQConsumer) handleDelivery(ctx context.Context, d amqp.Delivery, handler MessageHandler) error {
	msg, err := decodeDelivery(d)
	if err != nil {
		c.logger.Warn("rejecting undecodable agenda sync message",
			zap.String("messageId", d.MessageId),
			zap.Error(err),
		)
		return settle(d.Reject(false), "reject")
	}

	err = handler(ctx, msg)
	switch {
	case err == nil:
		return settle(d.Ack(false), "ack")
	case shouldRequeue(err, d.Redelivered):
		return settle(d.Nack(false, true), "nack")
	default:
		c.logger.Warn("dead-lettering agenda sync message",
			zap.String("eventId", msg.EventID),
			zap.String("correlationId", msg.CorrelationID),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err),
		)
		return settle(d.Reject(false), "reject")
	}
}

func decodeDelivery(d amqp.Delivery) (AgendaSyncMessage, error) {
	var msg AgendaSyncMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return AgendaSyncMessage{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if msg.CorrelationID == "" {
		msg.CorrelationID = d.CorrelationId
	}
	if err := msg.Validate(); err != nil {
		return AgendaSyncMessage{}, err
	}
	return msg, nil
}

func settle(err error, action string) error {
	if err != nil {
		return fmt.Errorf("failed to %s delivery: %w", action, err)
	}
	return nil
}

// shouldRequeue gives a failed message one more attempt unless the handler
// marked it as dead.
func shouldRequeue(err error, redelivered bool) bool {
	return !redelivered && !errors.Is(err, ErrDeadLetter)
}

func (c *RabbitMQConsumer) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
