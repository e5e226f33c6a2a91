package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/secret"
	"gorm.io/gorm"
)

// ConfigReader loads the provider-specific configuration of an integration.
type ConfigReader interface {
	GetConfig(ctx context.Context, integrationID string, provider domain.Provider) (domain.ProviderConfig, error)
}

type IntegrationRepository interface {
	ConfigReader

	// WithTransaction runs fn against a repository bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(tx IntegrationRepository) error) error

	Create(ctx context.Context, integration *domain.Integration) error
	GetByID(ctx context.Context, id string) (*domain.Integration, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Integration, error)
	ListByEventAndUsage(ctx context.Context, eventID string, usage domain.Usage) ([]domain.Integration, error)
	ListEventIDsByUsage(ctx context.Context, usage domain.Usage) ([]string, error)
	Delete(ctx context.Context, id string) error

	SaveConfig(ctx context.Context, integrationID string, cfg domain.ProviderConfig) error
	DeleteConfig(ctx context.Context, integrationID string, provider domain.Provider) error
}

type GormIntegrationRepo struct {
	db  *gorm.DB
	box *secret.Box
}

// NewGormIntegrationRepo stores credentials sealed with box; a nil box stores
// them verbatim.
func NewGormIntegrationRepo(db *gorm.DB, box *secret.Box) *GormIntegrationRepo {
	return &GormIntegrationRepo{db: db, box: box}
}

func (r *GormIntegrationRepo) WithTransaction(ctx context.Context, fn func(tx IntegrationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormIntegrationRepo{db: tx, box: r.box})
	})
}

func (r *GormIntegrationRepo) Create(ctx context.Context, integration *domain.Integration) error {
	model := integrationModelFromDomain(integration)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if integration != nil {
		*integration = *integrationModelToDomain(model)
	}
	return nil
}

func (r *GormIntegrationRepo) GetByID(ctx context.Context, id string) (*domain.Integration, error) {
	var model IntegrationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return integrationModelToDomain(&model), nil
}

func (r *GormIntegrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Integration, error) {
	return r.list(r.db.WithContext(ctx).Where("event_id = ?", eventID))
}

func (r *GormIntegrationRepo) ListByEventAndUsage(ctx context.Context, eventID string, usage domain.Usage) ([]domain.Integration, error) {
	return r.list(r.db.WithContext(ctx).Where("event_id = ? AND usage = ?", eventID, usage))
}

func (r *GormIntegrationRepo) list(query *gorm.DB) ([]domain.Integration, error) {
	var models []IntegrationModel
	err := query.
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	integrations := make([]domain.Integration, 0, len(models))
	for i := range models {
		integrations = append(integrations, *integrationModelToDomain(&models[i]))
	}
	return integrations, nil
}

func (r *GormIntegrationRepo) ListEventIDsByUsage(ctx context.Context, usage domain.Usage) ([]string, error) {
	var eventIDs []string
	err := r.db.WithContext(ctx).
		Model(&IntegrationModel{}).
		Where("usage = ?", usage).
		Distinct().
		Order("event_id ASC").
		Pluck("event_id", &eventIDs).Error
	if err != nil {
		return nil, err
	}
	return eventIDs, nil
}

func (r *GormIntegrationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&IntegrationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormIntegrationRepo) SaveConfig(ctx context.Context, integrationID string, cfg domain.ProviderConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: provider config is required", domain.ErrValidation)
	}

	model, err := configModelFromDomain(integrationID, cfg, r.box)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *GormIntegrationRepo) GetConfig(ctx context.Context, integrationID string, provider domain.Provider) (domain.ProviderConfig, error) {
	model, err := newConfigModel(provider)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).First(model, "integration_id = ?", integrationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s config for integration %s", domain.ErrNotFound, provider, integrationID)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := model.toDomain(r.box)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderConfigMalformed, err)
	}
	return cfg, nil
}

func (r *GormIntegrationRepo) DeleteConfig(ctx context.Context, integrationID string, provider domain.Provider) error {
	model, err := newConfigModel(provider)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("integration_id = ?", integrationID).Delete(model).Error
}

// LoadConfig reads the configuration of integrationID as the concrete type T.
func LoadConfig[T domain.ProviderConfig](ctx context.Context, reader ConfigReader, integrationID string) (T, error) {
	var zero T
	if reader == nil {
		return zero, fmt.Errorf("config reader is required")
	}

	cfg, err := reader.GetConfig(ctx, integrationID, zero.Provider())
	if err != nil {
		return zero, err
	}

	typed, ok := cfg.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", domain.ErrProviderConfigMalformed, cfg, zero)
	}
	return typed, nil
}
