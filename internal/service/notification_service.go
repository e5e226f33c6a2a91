package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/ratelimit"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

// NotificationService sends one message through every notification
// integration of an event.
type NotificationService struct {
	integrations repository.IntegrationRepository
	notifiers    []gateway.NotificationGateway
	templates    []gateway.TemplateGateway
	fanOut       *fanOut
}

func NewNotificationService(
	integrations repository.IntegrationRepository,
	notifiers []gateway.NotificationGateway,
	templates []gateway.TemplateGateway,
	rateLimiter ratelimit.RateLimiter,
	concurrency int,
	logger *zap.Logger,
) (*NotificationService, error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}

	return &NotificationService{
		integrations: integrations,
		notifiers:    notifiers,
		templates:    templates,
		fanOut:       newFanOut(domain.UsageNotification, concurrency, rateLimiter, logger),
	}, nil
}

func (s *NotificationService) SetMetrics(metrics *observability.Metrics) {
	s.fanOut.metrics = metrics
}

// SendMessage returns one DeliveryResult for the event. Only invalid input
// or a failed integration lookup is returned as an error; provider failures
// are recorded per recipient.
func (s *NotificationService) SendMessage(ctx context.Context, eventID string, vars domain.NotificationVariables) (domain.DeliveryResult, error) {
	if eventID == "" {
		return domain.DeliveryResult{}, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	if err := vars.Validate(); err != nil {
		return domain.DeliveryResult{}, err
	}

	targets, err := s.integrations.ListByEventAndUsage(ctx, eventID, domain.UsageNotification)
	if err != nil {
		return domain.DeliveryResult{}, fmt.Errorf("failed to load notification integrations: %w", err)
	}

	return s.fanOut.run(ctx, targets, func(ctx context.Context, target domain.Integration) error {
		return s.send(ctx, target, vars)
	}), nil
}

func (s *NotificationService) send(ctx context.Context, target domain.Integration, vars domain.NotificationVariables) error {
	notifier, err := gateway.Resolve(s.notifiers, target.Provider)
	if err != nil {
		observability.WithContextLogger(s.fanOut.logger, ctx).Error("registered provider has no gateway",
			zap.String("integrationId", target.ID),
			zap.String("provider", target.Provider.String()),
		)
		return err
	}

	renderer, err := gateway.Resolve(s.templates, target.Provider)
	if errors.Is(err, domain.ErrNoGatewayForProvider) {
		return fmt.Errorf("%w: %s", domain.ErrNoTemplateForProvider, target.Provider)
	}
	if err != nil {
		return err
	}

	content, err := renderer.Render(ctx, vars)
	if err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}

	return notifier.Send(ctx, target.ID, content)
}
