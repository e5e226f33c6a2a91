package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

const defaultAgendaSyncInterval = 15 * time.Minute

// AgendaScheduler periodically queues a sync for every event with an agenda integration.
type AgendaScheduler struct {
	integrations repository.IntegrationRepository
	publisher    queue.Publisher
	logger       *zap.Logger
	metrics      *observability.Metrics
	interval     time.Duration
	now          func() time.Time
}

func NewAgendaScheduler(
	integrations repository.IntegrationRepository,
	publisher queue.Publisher,
	interval time.Duration,
	logger *zap.Logger,
) (*AgendaScheduler, error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if interval <= 0 {
		interval = defaultAgendaSyncInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AgendaScheduler{
		integrations: integrations,
		publisher:    publisher,
		logger:       logger,
		interval:     interval,
		now:          time.Now,
	}, nil
}

func (s *AgendaScheduler) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func (s *AgendaScheduler) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.scan(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("agenda scheduler initial scan failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.scan(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Error("agenda scheduler scan failed", zap.Error(err))
			}
		}
	}
}

func (s *AgendaScheduler) scan(ctx context.Context) error {
	eventIDs, err := s.integrations.ListEventIDsByUsage(ctx, domain.UsageAgenda)
	if err != nil {
		return fmt.Errorf("failed to list events with agenda integrations: %w", err)
	}

	correlationID := uuid.NewString()
	for _, eventID := range eventIDs {
		msg := queue.AgendaSyncMessage{
			EventID:       eventID,
			CorrelationID: correlationID,
			RequestedAt:   s.now().UTC(),
		}
		if err := s.publisher.Publish(ctx, queue.AgendaSyncQueue, msg); err != nil {
			s.logger.Error("failed to enqueue agenda sync",
				zap.String("eventId", eventID),
				zap.Error(err),
			)
			continue
		}
		s.metrics.IncAgendaSyncScheduled()
	}

	if len(eventIDs) > 0 {
		s.logger.Info("agenda syncs scheduled",
			zap.Int("events", len(eventIDs)),
			zap.String("correlationId", correlationID),
		)
	}
	return nil
}
