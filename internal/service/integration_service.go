package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/integration"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
	"go.uber.org/zap"
)

// IntegrationService is the registration entry point: it turns an untrusted
// (provider, usage, payload) triple into a stored integration.
type IntegrationService struct {
	registrars   []integration.Registrar
	deserializer *integration.Deserializer
	integrations repository.IntegrationRepository
	logger       *zap.Logger
}

func NewIntegrationService(
	registrars []integration.Registrar,
	deserializer *integration.Deserializer,
	integrations repository.IntegrationRepository,
	logger *zap.Logger,
) (*IntegrationService, error) {
	if len(registrars) == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	if deserializer == nil {
		return nil, fmt.Errorf("deserializer is required")
	}
	if integrations == nil {
		return nil, fmt.Errorf("integration repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IntegrationService{
		registrars:   registrars,
		deserializer: deserializer,
		integrations: integrations,
		logger:       logger,
	}, nil
}

// RegisterRaw parses the tags and payload and registers the result.
func (s *IntegrationService) RegisterRaw(ctx context.Context, eventID string, providerTag string, usageTag string, raw []byte) (string, error) {
	provider, err := domain.ParseProviderFromString(providerTag)
	if err != nil {
		return "", err
	}
	usage, err := domain.ParseUsageFromString(usageTag)
	if err != nil {
		return "", err
	}

	input, err := s.deserializer.Decode(provider, raw)
	if err != nil {
		return "", err
	}

	return s.Register(ctx, eventID, usage, input)
}

// Register hands input to the registrar that understands it and serves usage.
func (s *IntegrationService) Register(ctx context.Context, eventID string, usage domain.Usage, input domain.CreateIntegration) (string, error) {
	if input == nil {
		return "", fmt.Errorf("%w: configuration is required", domain.ErrValidation)
	}
	if err := domain.ValidateEventID(eventID); err != nil {
		return "", err
	}
	if !usage.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownUsage, usage)
	}

	registrar, err := s.registrarFor(input, usage)
	if err != nil {
		return "", err
	}

	id, err := registrar.Register(ctx, eventID, usage, input)
	if err != nil {
		return "", err
	}

	s.logger.Info("integration registered",
		zap.String("integrationId", id),
		zap.String("eventId", eventID),
		zap.String("provider", registrar.Provider().String()),
		zap.String("usage", usage.String()),
	)
	return id, nil
}

// Unregister removes an integration through the registrar of its provider.
// Unknown ids are a no-op.
func (s *IntegrationService) Unregister(ctx context.Context, integrationID string) error {
	if strings.TrimSpace(integrationID) == "" {
		return fmt.Errorf("%w: integration id is required", domain.ErrValidation)
	}

	existing, err := s.integrations.GetByID(ctx, integrationID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load integration: %w", err)
	}

	for _, registrar := range s.registrars {
		if registrar.Provider() != existing.Provider {
			continue
		}
		if err := registrar.Unregister(ctx, integrationID); err != nil {
			return err
		}
		s.logger.Info("integration unregistered",
			zap.String("integrationId", integrationID),
			zap.String("provider", existing.Provider.String()),
		)
		return nil
	}

	return fmt.Errorf("%w: no registrar for provider %s", domain.ErrNoRegistrarMatch, existing.Provider)
}

func (s *IntegrationService) List(ctx context.Context, eventID string) ([]domain.Integration, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	return s.integrations.ListByEvent(ctx, eventID)
}

// registrarFor prefers a registrar that accepts both input and usage. When
// the input is understood but the usage is not, the usage is the problem.
func (s *IntegrationService) registrarFor(input domain.CreateIntegration, usage domain.Usage) (integration.Registrar, error) {
	var understood integration.Registrar
	for _, registrar := range s.registrars {
		if !registrar.Supports(input) {
			continue
		}
		if integration.SupportsUsage(registrar, usage) {
			return registrar, nil
		}
		understood = registrar
	}

	if understood != nil {
		return nil, fmt.Errorf("%w: %s does not support %s", domain.ErrUnsupportedUsage, understood.Provider(), usage)
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrNoRegistrarMatch, input)
}
