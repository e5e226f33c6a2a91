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
	"golang.org/x/sync/errgroup"
)

const statusCheckConcurrency = 4

// IntegrationStatus is the credential check outcome of one integration.
type IntegrationStatus struct {
	Integration domain.Integration
	Live        bool
	Error       string
}

type StatusService struct {
	integrations repository.IntegrationRepository
	gateways     []gateway.StatusGateway
	logger       *zap.Logger
	metrics      *observability.Metrics
}

func NewStatusService(
	integrations repository.IntegrationRepository,
	gateways []gateway.StatusGateway,
	logger *zap.Logger,
) (*StatusService, error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{integrations: integrations, gateways: gateways, logger: logger}, nil
}

func (s *StatusService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Status checks one integration. Rejected credentials are reported as
// Live=false and an unreachable provider in Error, the same way EventStatuses
// reports them. Lookup and wiring failures are returned.
func (s *StatusService) Status(ctx context.Context, integrationID string) (IntegrationStatus, error) {
	if strings.TrimSpace(integrationID) == "" {
		return IntegrationStatus{}, fmt.Errorf("%w: integration id is required", domain.ErrValidation)
	}

	target, err := s.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return IntegrationStatus{}, err
	}

	live, err := s.check(ctx, *target)
	if err != nil {
		if gateway.IsProviderError(err) {
			return IntegrationStatus{Integration: *target, Error: err.Error()}, nil
		}
		return IntegrationStatus{Integration: *target}, err
	}
	return IntegrationStatus{Integration: *target, Live: live}, nil
}

// EventStatuses checks every integration of an event concurrently. Failed
// checks are reported in the result, never returned.
func (s *StatusService) EventStatuses(ctx context.Context, eventID string) ([]IntegrationStatus, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}

	targets, err := s.integrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load integrations: %w", err)
	}

	statuses := make([]IntegrationStatus, len(targets))
	var g errgroup.Group
	g.SetLimit(statusCheckConcurrency)
	for i := range targets {
		g.Go(func() error {
			statuses[i] = IntegrationStatus{Integration: targets[i]}
			live, err := s.check(ctx, targets[i])
			if err != nil {
				statuses[i].Error = err.Error()
				return nil
			}
			statuses[i].Live = live
			return nil
		})
	}
	_ = g.Wait()

	return statuses, nil
}

func (s *StatusService) check(ctx context.Context, target domain.Integration) (bool, error) {
	gw, err := gateway.Resolve(s.gateways, target.Provider)
	if err != nil {
		observability.WithContextLogger(s.logger, ctx).Error("registered provider has no status gateway",
			zap.String("integrationId", target.ID),
			zap.String("provider", target.Provider.String()),
		)
		return false, err
	}

	start := time.Now()
	live, err := gw.Status(ctx, target.ID)
	s.metrics.ObserveGatewayCall("status", target.Provider.String(), err, time.Since(start))
	if err != nil {
		return false, fmt.Errorf("status check with %s failed: %w", target.Provider, err)
	}
	return live, nil
}
