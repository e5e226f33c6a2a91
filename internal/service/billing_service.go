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

// BillingService issues partnership invoices and quotes through the event's
// billing integration.
type BillingService struct {
	dispatch *singleTarget[gateway.BillingGateway]
}

func NewBillingService(
	integrations repository.IntegrationRepository,
	gateways []gateway.BillingGateway,
	logger *zap.Logger,
) (*BillingService, error) {
	dispatch, err := newSingleTarget(domain.UsageBilling, integrations, gateways, logger)
	if err != nil {
		return nil, err
	}
	return &BillingService{dispatch: dispatch}, nil
}

func (s *BillingService) SetMetrics(metrics *observability.Metrics) {
	s.dispatch.metrics = metrics
}

// CreateInvoice returns the URL of the issued invoice.
func (s *BillingService) CreateInvoice(ctx context.Context, eventID string, partnershipID string) (string, error) {
	return s.create(ctx, eventID, partnershipID, "invoice", gateway.BillingGateway.CreateInvoice)
}

// CreateQuote returns the URL of the issued quote.
func (s *BillingService) CreateQuote(ctx context.Context, eventID string, partnershipID string) (string, error) {
	return s.create(ctx, eventID, partnershipID, "quote", gateway.BillingGateway.CreateQuote)
}

func (s *BillingService) create(
	ctx context.Context,
	eventID string,
	partnershipID string,
	document string,
	call func(gateway.BillingGateway, context.Context, string, string, string) (string, error),
) (string, error) {
	if strings.TrimSpace(partnershipID) == "" {
		return "", fmt.Errorf("%w: partnership id is required", domain.ErrValidation)
	}

	target, gw, err := s.dispatch.resolve(ctx, eventID)
	if err != nil {
		return "", err
	}

	start := time.Now()
	url, err := call(gw, ctx, target.ID, eventID, partnershipID)
	s.dispatch.observe(target.Provider, start, err)
	if err != nil {
		return "", fmt.Errorf("failed to create %s with %s: %w", document, target.Provider, err)
	}
	return url, nil
}
