package integration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

// Registrar validates one provider's configuration against a usage and
// persists it.
type Registrar interface {
	Provider() domain.Provider
	SupportedUsages() []domain.Usage
	Supports(input domain.CreateIntegration) bool
	Register(ctx context.Context, eventID string, usage domain.Usage, input domain.CreateIntegration) (string, error)
	// Unregister removes the integration and its configuration. Unknown ids
	// are a no-op.
	Unregister(ctx context.Context, integrationID string) error
}

// SupportsUsage reports whether r may serve usage.
func SupportsUsage(r Registrar, usage domain.Usage) bool {
	return slices.Contains(r.SupportedUsages(), usage)
}

type configRegistrar[I domain.CreateIntegration] struct {
	provider     domain.Provider
	usages       []domain.Usage
	toConfig     func(I) domain.ProviderConfig
	integrations repository.IntegrationRepository
	now          func() time.Time
	newID        func() string
}

func newConfigRegistrar[I domain.CreateIntegration](
	integrations repository.IntegrationRepository,
	usages []domain.Usage,
	toConfig func(I) domain.ProviderConfig,
) *configRegistrar[I] {
	var zero I
	return &configRegistrar[I]{
		provider:     zero.Kind(),
		usages:       usages,
		toConfig:     toConfig,
		integrations: integrations,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (r *configRegistrar[I]) Provider() domain.Provider {
	return r.provider
}

func (r *configRegistrar[I]) SupportedUsages() []domain.Usage {
	return slices.Clone(r.usages)
}

func (r *configRegistrar[I]) Supports(input domain.CreateIntegration) bool {
	_, ok := input.(I)
	return ok
}

func (r *configRegistrar[I]) Register(ctx context.Context, eventID string, usage domain.Usage, input domain.CreateIntegration) (string, error) {
	if strings.TrimSpace(eventID) == "" {
		return "", fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	if !slices.Contains(r.usages, usage) {
		return "", fmt.Errorf("%w: %s does not support %s", domain.ErrUnsupportedUsage, r.provider, usage)
	}

	typed, ok := input.(I)
	if !ok {
		return "", fmt.Errorf("%w: %s registrar cannot handle %T", domain.ErrNoRegistrarMatch, r.provider, input)
	}

	integration := &domain.Integration{
		ID:        r.newID(),
		EventID:   eventID,
		Provider:  r.provider,
		Usage:     usage,
		CreatedAt: r.now().UTC(),
	}

	err := r.integrations.WithTransaction(ctx, func(tx repository.IntegrationRepository) error {
		if err := tx.Create(ctx, integration); err != nil {
			return fmt.Errorf("failed to persist integration: %w", err)
		}
		if err := tx.SaveConfig(ctx, integration.ID, r.toConfig(typed)); err != nil {
			return fmt.Errorf("failed to persist %s config: %w", r.provider, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return integration.ID, nil
}

func (r *configRegistrar[I]) Unregister(ctx context.Context, integrationID string) error {
	return r.integrations.WithTransaction(ctx, func(tx repository.IntegrationRepository) error {
		integration, err := tx.GetByID(ctx, integrationID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if integration.Provider != r.provider {
			return fmt.Errorf("%w: integration %s belongs to %s, not %s",
				domain.ErrConflict, integrationID, integration.Provider, r.provider)
		}

		if err := tx.DeleteConfig(ctx, integrationID, r.provider); err != nil {
			return fmt.Errorf("failed to delete %s config: %w", r.provider, err)
		}
		if err := tx.Delete(ctx, integrationID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to delete integration: %w", err)
		}
		return nil
	})
}
