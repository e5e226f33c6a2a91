package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/queue"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

// AgendaService imports the schedule of an event from its agenda integration.
type AgendaService struct {
	dispatch  *singleTarget[gateway.AgendaGateway]
	publisher queue.Publisher
}

func NewAgendaService(
	integrations repository.IntegrationRepository,
	gateways []gateway.AgendaGateway,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*AgendaService, error) {
	dispatch, err := newSingleTarget(domain.UsageAgenda, integrations, gateways, logger)
	if err != nil {
		return nil, err
	}
	return &AgendaService{dispatch: dispatch, publisher: publisher}, nil
}

func (s *AgendaService) SetMetrics(metrics *observability.Metrics) {
	s.dispatch.metrics = metrics
}

// FetchAndStore synchronously refreshes the stored agenda of eventID.
func (s *AgendaService) FetchAndStore(ctx context.Context, eventID string) (domain.AgendaSyncResult, error) {
	target, gw, err := s.dispatch.resolve(ctx, eventID)
	if err != nil {
		return domain.AgendaSyncResult{}, err
	}

	start := time.Now()
	result, err := gw.FetchAndStore(ctx, target.ID, eventID)
	s.dispatch.observe(target.Provider, start, err)
	if err != nil {
		return domain.AgendaSyncResult{}, fmt.Errorf("failed to sync agenda with %s: %w", target.Provider, err)
	}

	observability.WithContextLogger(s.dispatch.logger, ctx).Info("agenda synchronised",
		zap.String("eventId", eventID),
		zap.String("provider", target.Provider.String()),
		zap.Int("sessions", result.Sessions),
		zap.Int("speakers", result.Speakers),
	)
	return result, nil
}

// RequestSync queues an asynchronous refresh. The event must have exactly
// one agenda integration so misconfiguration is reported to the caller
// instead of the dead-letter queue.
func (s *AgendaService) RequestSync(ctx context.Context, eventID string, correlationID string) error {
	if s.publisher == nil {
		return fmt.Errorf("agenda sync publisher is not configured")
	}
	if _, _, err := s.dispatch.resolve(ctx, eventID); err != nil {
		return err
	}

	msg := queue.AgendaSyncMessage{
		EventID:       eventID,
		CorrelationID: strings.TrimSpace(correlationID),
		RequestedAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, queue.AgendaSyncQueue, msg); err != nil {
		return fmt.Errorf("failed to queue agenda sync: %w", err)
	}
	return nil
}
