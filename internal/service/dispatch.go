package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/gateway"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

// singleTarget resolves the one integration of a single-target usage and the
// gateway serving its provider. The lookup is a plain read, so no
// transaction is open while the gateway runs.
type singleTarget[G gateway.Gateway] struct {
	usage        domain.Usage
	integrations repository.IntegrationRepository
	gateways     []G
	logger       *zap.Logger
	metrics      *observability.Metrics
}

func newSingleTarget[G gateway.Gateway](
	usage domain.Usage,
	integrations repository.IntegrationRepository,
	gateways []G,
	logger *zap.Logger,
) (*singleTarget[G], error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &singleTarget[G]{
		usage:        usage,
		integrations: integrations,
		gateways:     gateways,
		logger:       logger,
	}, nil
}

func (d *singleTarget[G]) resolve(ctx context.Context, eventID string) (domain.Integration, G, error) {
	var zero G
	if strings.TrimSpace(eventID) == "" {
		return domain.Integration{}, zero, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}

	logger := observability.WithContextLogger(d.logger, ctx).With(
		zap.String("eventId", eventID),
		zap.String("usage", d.usage.String()),
	)

	found, err := d.integrations.ListByEventAndUsage(ctx, eventID, d.usage)
	if err != nil {
		return domain.Integration{}, zero, fmt.Errorf("failed to load %s integrations: %w", d.usage, err)
	}

	switch len(found) {
	case 0:
		return domain.Integration{}, zero, fmt.Errorf("%w: no %s integration for event %s", domain.ErrNotConfigured, d.usage, eventID)
	case 1:
	default:
		ids := make([]string, 0, len(found))
		for _, i := range found {
			ids = append(ids, i.ID)
		}
		logger.Error("ambiguous integration configuration", zap.Strings("integrationIds", ids))
		return domain.Integration{}, zero, fmt.Errorf("%w: %d %s integrations for event %s",
			domain.ErrAmbiguousConfiguration, len(found), d.usage, eventID)
	}

	target := found[0]
	gw, err := gateway.Resolve(d.gateways, target.Provider)
	if err != nil {
		logger.Error("registered provider has no gateway",
			zap.String("integrationId", target.ID),
			zap.String("provider", target.Provider.String()),
		)
		return domain.Integration{}, zero, err
	}

	return target, gw, nil
}

func (d *singleTarget[G]) observe(provider domain.Provider, start time.Time, err error) {
	d.metrics.ObserveGatewayCall(d.usage.String(), provider.String(), err, time.Since(start))
}
