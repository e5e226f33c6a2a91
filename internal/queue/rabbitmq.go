package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	dlxExchangeName  = "partnership.dlx"
	dialTimeout      = 15 * time.Second
	reconnectBackoff = time.Second
	maxBackoff       = 30 * time.Second
)

// RabbitMQ owns the broker connection shared by the agenda sync publisher
// and consumer. The topology is declared once per connection.
type RabbitMQ struct {
	url    string
	logger *zap.Logger

	mu       sync.RWMutex
	dialMu   sync.Mutex
	conn     *amqp.Connection
	declared bool
}

func NewRabbitMQ(url string, logger *zap.Logger) (*RabbitMQ, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("rabbitmq url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &RabbitMQ{url: url, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if _, err := r.connection(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Connected reports whether the broker connection is open. It never dials.
func (r *RabbitMQ) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conn != nil && !r.conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.declared = false
	r.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}
	return conn.Close()
}

// channel opens a channel on a live connection, redialling once if the
// connection died between the check and the open.
func (r *RabbitMQ) channel(ctx context.Context) (*amqp.Channel, error) {
	for attempt := 0; ; attempt++ {
		conn, err := r.connection(ctx)
		if err != nil {
			return nil, err
		}

		ch, err := conn.Channel()
		if err != nil {
			if attempt == 0 {
				r.logger.Warn("rabbitmq channel open failed, redialling", zap.Error(err))
				r.drop(conn)
				continue
			}
			return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
		}

		if err := r.ensureTopology(ch); err != nil {
			_ = ch.Close()
			return nil, err
		}
		return ch, nil
	}
}

func (r *RabbitMQ) connection(ctx context.Context) (*amqp.Connection, error) {
	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()
	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}

	r.dialMu.Lock()
	defer r.dialMu.Unlock()

	// Another caller may have redialled while we waited.
	r.mu.RLock()
	conn = r.conn
	r.mu.RUnlock()
	if conn != nil && !conn.IsClosed() {
		return conn, nil
	}

	wait := reconnectBackoff
	for {
		conn, err := amqp.Dial(r.url)
		if err == nil {
			r.mu.Lock()
			r.conn = conn
			r.declared = false
			r.mu.Unlock()
			r.logger.Info("rabbitmq connected")
			return conn, nil
		}

		r.logger.Warn("rabbitmq dial failed", zap.Error(err), zap.Duration("retryIn", wait))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rabbitmq dial canceled: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait = min(wait*2, maxBackoff)
	}
}

// drop forgets conn so the next caller redials.
func (r *RabbitMQ) drop(conn *amqp.Connection) {
	r.mu.Lock()
	if r.conn == conn {
		r.conn = nil
		r.declared = false
	}
	r.mu.Unlock()

	if !conn.IsClosed() {
		_ = conn.Close()
	}
}

func (r *RabbitMQ) ensureTopology(ch *amqp.Channel) error {
	r.mu.RLock()
	declared := r.declared
	r.mu.RUnlock()
	if declared {
		return nil
	}

	if err := declareTopology(ch); err != nil {
		return err
	}

	r.mu.Lock()
	r.declared = true
	r.mu.Unlock()
	return nil
}

// declareTopology declares, for every work queue, a durable queue that
// dead-letters into dlq.<queue> through the shared direct exchange.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchangeName, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dlx exchange: %w", err)
	}

	for _, queueName := range WorkQueueNames() {
		dlqName := DLQName(queueName)

		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dlq %q: %w", dlqName, err)
		}
		if err := ch.QueueBind(dlqName, queueName, dlxExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind dlq %q: %w", dlqName, err)
		}

		args := amqp.Table{
			"x-dead-letter-exchange":    dlxExchangeName,
			"x-dead-letter-routing-key": queueName,
		}
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %q: %w", queueName, err)
		}
	}

	return nil
}
