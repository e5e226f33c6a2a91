package repository

import (
	"fmt"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/secret"
)

// configModel is a row of one of the per-provider configuration tables,
// keyed 1:1 by integration id.
type configModel interface {
	TableName() string
	toDomain(box *secret.Box) (domain.ProviderConfig, error)
}

type SlackIntegrationModel struct {
	IntegrationID string `gorm:"type:uuid;primaryKey"`
	Token         string `gorm:"type:text;not null"`
	Channel       string `gorm:"type:varchar(255);not null"`
}

func (SlackIntegrationModel) TableName() string { return "slack_integrations" }

type MailjetIntegrationModel struct {
	IntegrationID string `gorm:"type:uuid;primaryKey"`
	APIKey        string `gorm:"type:text;not null"`
	Secret        string `gorm:"type:text;not null"`
	FromEmail     string `gorm:"type:varchar(255);not null"`
	FromName      string `gorm:"type:varchar(255);not null"`
}

func (MailjetIntegrationModel) TableName() string { return "mailjet_integrations" }

type WebhookIntegrationModel struct {
	IntegrationID string   `gorm:"type:uuid;primaryKey"`
	URL           string   `gorm:"type:varchar(2048);not null"`
	Secret        string   `gorm:"type:text"`
	Events        []string `gorm:"serializer:json;type:text"`
}

func (WebhookIntegrationModel) TableName() string { return "webhook_integrations" }

type QontoIntegrationModel struct {
	IntegrationID string `gorm:"type:uuid;primaryKey"`
	APIKey        string `gorm:"type:text;not null"`
	Secret        string `gorm:"type:text;not null"`
	SandboxToken  string `gorm:"type:text"`
}

func (QontoIntegrationModel) TableName() string { return "qonto_integrations" }

type BilletwebIntegrationModel struct {
	IntegrationID string `gorm:"type:uuid;primaryKey"`
	Basic         string `gorm:"type:text;not null"`
	EventID       string `gorm:"type:varchar(255);not null"`
	RateID        string `gorm:"type:varchar(255);not null"`
}

func (BilletwebIntegrationModel) TableName() string { return "billetweb_integrations" }

type OpenPlannerIntegrationModel struct {
	IntegrationID string `gorm:"type:uuid;primaryKey"`
	EventID       string `gorm:"type:varchar(255);not null"`
	APIKey        string `gorm:"type:text;not null"`
}

func (OpenPlannerIntegrationModel) TableName() string { return "openplanner_integrations" }

// ConfigModels lists every provider configuration table, used by migrations.
func ConfigModels() []any {
	return []any{
		&SlackIntegrationModel{},
		&MailjetIntegrationModel{},
		&WebhookIntegrationModel{},
		&QontoIntegrationModel{},
		&BilletwebIntegrationModel{},
		&OpenPlannerIntegrationModel{},
	}
}

func newConfigModel(provider domain.Provider) (configModel, error) {
	switch provider {
	case domain.ProviderSlack:
		return &SlackIntegrationModel{}, nil
	case domain.ProviderMailjet:
		return &MailjetIntegrationModel{}, nil
	case domain.ProviderWebhook:
		return &WebhookIntegrationModel{}, nil
	case domain.ProviderQonto:
		return &QontoIntegrationModel{}, nil
	case domain.ProviderBilletweb:
		return &BilletwebIntegrationModel{}, nil
	case domain.ProviderOpenPlanner:
		return &OpenPlannerIntegrationModel{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, provider)
}

func configModelFromDomain(integrationID string, cfg domain.ProviderConfig, box *secret.Box) (configModel, error) {
	seal := sealer{box: box}

	var model configModel
	switch c := cfg.(type) {
	case domain.SlackConfig:
		model = &SlackIntegrationModel{
			IntegrationID: integrationID,
			Token:         seal.do(c.Token),
			Channel:       c.Channel,
		}
	case domain.MailjetConfig:
		model = &MailjetIntegrationModel{
			IntegrationID: integrationID,
			APIKey:        seal.do(c.APIKey),
			Secret:        seal.do(c.Secret),
			FromEmail:     c.FromEmail,
			FromName:      c.FromName,
		}
	case domain.WebhookConfig:
		model = &WebhookIntegrationModel{
			IntegrationID: integrationID,
			URL:           c.URL,
			Secret:        seal.do(c.Secret),
			Events:        c.Events,
		}
	case domain.QontoConfig:
		model = &QontoIntegrationModel{
			IntegrationID: integrationID,
			APIKey:        seal.do(c.APIKey),
			Secret:        seal.do(c.Secret),
			SandboxToken:  seal.do(c.SandboxToken),
		}
	case domain.BilletwebConfig:
		model = &BilletwebIntegrationModel{
			IntegrationID: integrationID,
			Basic:         seal.do(c.Basic),
			EventID:       c.EventID,
			RateID:        c.RateID,
		}
	case domain.OpenPlannerConfig:
		model = &OpenPlannerIntegrationModel{
			IntegrationID: integrationID,
			EventID:       c.EventID,
			APIKey:        seal.do(c.APIKey),
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config type %T", domain.ErrUnknownProvider, cfg)
	}

	if seal.err != nil {
		return nil, fmt.Errorf("failed to seal %s credentials: %w", cfg.Provider(), seal.err)
	}
	return model, nil
}

func (m *SlackIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.SlackConfig{Token: open.do(m.Token), Channel: m.Channel}
	return cfg, open.err
}

func (m *MailjetIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.MailjetConfig{
		APIKey:    open.do(m.APIKey),
		Secret:    open.do(m.Secret),
		FromEmail: m.FromEmail,
		FromName:  m.FromName,
	}
	return cfg, open.err
}

func (m *WebhookIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.WebhookConfig{URL: m.URL, Secret: open.do(m.Secret), Events: m.Events}
	return cfg, open.err
}

func (m *QontoIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.QontoConfig{
		APIKey:       open.do(m.APIKey),
		Secret:       open.do(m.Secret),
		SandboxToken: open.do(m.SandboxToken),
	}
	return cfg, open.err
}

func (m *BilletwebIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.BilletwebConfig{Basic: open.do(m.Basic), EventID: m.EventID, RateID: m.RateID}
	return cfg, open.err
}

func (m *OpenPlannerIntegrationModel) toDomain(box *secret.Box) (domain.ProviderConfig, error) {
	open := opener{box: box}
	cfg := domain.OpenPlannerConfig{EventID: m.EventID, APIKey: open.do(m.APIKey)}
	return cfg, open.err
}

// sealer and opener keep the first error so field mapping stays flat.
type sealer struct {
	box *secret.Box
	err error
}

func (s *sealer) do(value string) string {
	if s.err != nil {
		return ""
	}
	sealed, err := s.box.Seal(value)
	if err != nil {
		s.err = err
		return ""
	}
	return sealed
}

type opener struct {
	box *secret.Box
	err error
}

func (o *opener) do(value string) string {
	if o.err != nil {
		return ""
	}
	opened, err := o.box.Open(value)
	if err != nil {
		o.err = err
		return ""
	}
	return opened
}
