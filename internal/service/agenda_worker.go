package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const minWorkerConcurrency = 1

type agendaSyncer interface {
	FetchAndStore(ctx context.Context, eventID string) (domain.AgendaSyncResult, error)
}

// AgendaWorker consumes agenda sync requests.
type AgendaWorker struct {
	agenda      agendaSyncer
	consumer    queue.Consumer
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
}

func NewAgendaWorker(
	agenda agendaSyncer,
	consumer queue.Consumer,
	concurrency int,
	logger *zap.Logger,
) (*AgendaWorker, error) {
	if agenda == nil {
		return nil, fmt.Errorf("agenda service is required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("consumer is required")
	}
	if concurrency < minWorkerConcurrency {
		concurrency = minWorkerConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AgendaWorker{
		agenda:      agenda,
		consumer:    consumer,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

func (w *AgendaWorker) SetMetrics(metrics *observability.Metrics) {
	if w == nil {
		return
	}
	w.metrics = metrics
}

// Start consumes the agenda sync queue until context cancellation.
func (w *AgendaWorker) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			w.logger.Info("agenda worker started",
				zap.Int("workerId", workerID),
				zap.String("queue", queue.AgendaSyncQueue),
			)

			err := w.consumer.Consume(groupCtx, queue.AgendaSyncQueue, w.processMessage)
			if err != nil {
				w.logger.Error("agenda worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			w.logger.Info("agenda worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

func (w *AgendaWorker) processMessage(ctx context.Context, msg queue.AgendaSyncMessage) error {
	if msg.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, msg.CorrelationID)
	}
	logger := observability.WithContextLogger(w.logger, ctx).With(zap.String("eventId", msg.EventID))

	w.metrics.IncWorkerInFlight(queue.AgendaSyncQueue)
	defer w.metrics.DecWorkerInFlight(queue.AgendaSyncQueue)

	_, err := w.agenda.FetchAndStore(ctx, msg.EventID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotConfigured):
		// Integration removed after the request was queued.
		logger.Info("agenda integration gone, dropping sync request")
		return nil
	case errors.Is(err, domain.ErrAmbiguousConfiguration),
		errors.Is(err, domain.ErrNoGatewayForProvider),
		errors.Is(err, domain.ErrProviderConfigMalformed):
		return fmt.Errorf("%w: %w", queue.ErrDeadLetter, err)
	case gateway.IsProviderError(err) && !gateway.IsTransient(err):
		logger.Warn("agenda provider rejected sync", zap.Error(err))
		return fmt.Errorf("%w: %w", queue.ErrDeadLetter, err)
	default:
		logger.Warn("agenda sync failed", zap.Error(err))
		return err
	}
}
