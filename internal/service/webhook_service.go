package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/ratelimit"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

// WebhookService pushes partnership events to every subscribed webhook of an event.
type WebhookService struct {
	integrations repository.IntegrationRepository
	gateways     []gateway.WebhookGateway
	fanOut       *fanOut
	now          func() time.Time
}

func NewWebhookService(
	integrations repository.IntegrationRepository,
	gateways []gateway.WebhookGateway,
	rateLimiter ratelimit.RateLimiter,
	concurrency int,
	logger *zap.Logger,
) (*WebhookService, error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}

	return &WebhookService{
		integrations: integrations,
		gateways:     gateways,
		fanOut:       newFanOut(domain.UsageWebhook, concurrency, rateLimiter, logger),
		now:          time.Now,
	}, nil
}

func (s *WebhookService) SetMetrics(metrics *observability.Metrics) {
	s.fanOut.metrics = metrics
}

// Deliver fans event out to the webhooks whose event filter accepts it.
// Webhooks filtering the type out are not recipients.
func (s *WebhookService) Deliver(ctx context.Context, eventID string, event domain.WebhookEvent) (domain.DeliveryResult, error) {
	if strings.TrimSpace(eventID) == "" {
		return domain.DeliveryResult{}, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	if err := event.Validate(); err != nil {
		return domain.DeliveryResult{}, err
	}
	event.EventID = eventID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}

	registered, err := s.integrations.ListByEventAndUsage(ctx, eventID, domain.UsageWebhook)
	if err != nil {
		return domain.DeliveryResult{}, fmt.Errorf("failed to load webhook integrations: %w", err)
	}

	targets := make([]domain.Integration, 0, len(registered))
	for _, target := range registered {
		cfg, err := repository.LoadConfig[domain.WebhookConfig](ctx, s.integrations, target.ID)
		// An unreadable config stays a recipient so the failure is reported.
		if err == nil && !cfg.Accepts(event.Type) {
			continue
		}
		targets = append(targets, target)
	}

	return s.fanOut.run(ctx, targets, func(ctx context.Context, target domain.Integration) error {
		gw, err := gateway.Resolve(s.gateways, target.Provider)
		if err != nil {
			observability.WithContextLogger(s.fanOut.logger, ctx).Error("registered provider has no gateway",
				zap.String("integrationId", target.ID),
				zap.String("provider", target.Provider.String()),
			)
			return err
		}
		return gw.Deliver(ctx, target.ID, event)
	}), nil
}
