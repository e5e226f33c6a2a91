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

type TicketingService struct {
	dispatch *singleTarget[gateway.TicketingGateway]
}

func NewTicketingService(
	integrations repository.IntegrationRepository,
	gateways []gateway.TicketingGateway,
	logger *zap.Logger,
) (*TicketingService, error) {
	dispatch, err := newSingleTarget(domain.UsageTicketing, integrations, gateways, logger)
	if err != nil {
		return nil, err
	}
	return &TicketingService{dispatch: dispatch}, nil
}

func (s *TicketingService) SetMetrics(metrics *observability.Metrics) {
	s.dispatch.metrics = metrics
}

func (s *TicketingService) CreateTickets(ctx context.Context, eventID string, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error) {
	if strings.TrimSpace(partnershipID) == "" {
		return nil, fmt.Errorf("%w: partnership id is required", domain.ErrValidation)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: at least one ticket is required", domain.ErrValidation)
	}
	for _, ticket := range tickets {
		if err := ticket.Validate(); err != nil {
			return nil, err
		}
	}

	target, gw, err := s.dispatch.resolve(ctx, eventID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	order, err := gw.CreateTickets(ctx, target.ID, eventID, partnershipID, tickets)
	s.dispatch.observe(target.Provider, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create tickets with %s: %w", target.Provider, err)
	}
	return order, nil
}

func (s *TicketingService) UpdateTicket(ctx context.Context, eventID string, ticketID string, data domain.TicketData) (*domain.Ticket, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, fmt.Errorf("%w: ticket id is required", domain.ErrValidation)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	target, gw, err := s.dispatch.resolve(ctx, eventID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ticket, err := gw.UpdateTicket(ctx, target.ID, ticketID, data)
	s.dispatch.observe(target.Provider, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket with %s: %w", target.Provider, err)
	}
	return ticket, nil
}
