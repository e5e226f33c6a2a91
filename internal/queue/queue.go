package queue

import (
	"context"
	"errors"
	"fmt"
)

// Publisher publishes agenda sync requests to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg AgendaSyncMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message. Returning an error wrapping
// ErrDeadLetter routes the message to the dead-letter queue immediately;
// other errors requeue it once.
type MessageHandler func(ctx context.Context, msg AgendaSyncMessage) error

// Consumer consumes agenda sync requests from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}

var ErrDeadLetter = errors.New("message cannot be processed")

const AgendaSyncQueue = "agenda.sync"

// DLQName returns the dead-letter queue name of a work queue, e.g. dlq.agenda.sync.
func DLQName(queue string) string {
	return fmt.Sprintf("dlq.%s", queue)
}

// WorkQueueNames returns all work queues.
func WorkQueueNames() []string {
	return []string{AgendaSyncQueue}
}

// DLQNames returns all dead-letter queues.
func DLQNames() []string {
	queues := WorkQueueNames()
	names := make([]string, 0, len(queues))
	for _, queue := range queues {
		names = append(names, DLQName(queue))
	}
	return names
}
