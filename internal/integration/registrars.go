package integration

import (
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

func NewSlackRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageNotification},
		func(in domain.CreateSlackIntegration) domain.ProviderConfig {
			return domain.SlackConfig{Token: in.Token, Channel: in.Channel}
		},
	)
}

func NewMailjetRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageNotification},
		func(in domain.CreateMailjetIntegration) domain.ProviderConfig {
			return domain.MailjetConfig{
				APIKey:    in.APIKey,
				Secret:    in.Secret,
				FromEmail: in.FromEmail,
				FromName:  in.FromName,
			}
		},
	)
}

func NewWebhookRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageWebhook},
		func(in domain.CreateWebhookIntegration) domain.ProviderConfig {
			return domain.WebhookConfig{URL: in.URL, Secret: in.Secret, Events: in.Events}
		},
	)
}

func NewQontoRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageBilling},
		func(in domain.CreateQontoIntegration) domain.ProviderConfig {
			return domain.QontoConfig{APIKey: in.APIKey, Secret: in.Secret, SandboxToken: in.SandboxToken}
		},
	)
}

func NewBilletwebRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageTicketing},
		func(in domain.CreateBilletwebIntegration) domain.ProviderConfig {
			return domain.BilletwebConfig{Basic: in.Basic, EventID: in.EventID, RateID: in.RateID}
		},
	)
}

func NewOpenPlannerRegistrar(integrations repository.IntegrationRepository) Registrar {
	return newConfigRegistrar(integrations,
		[]domain.Usage{domain.UsageAgenda},
		func(in domain.CreateOpenPlannerIntegration) domain.ProviderConfig {
			return domain.OpenPlannerConfig{EventID: in.EventID, APIKey: in.APIKey}
		},
	)
}

// Registrars returns the compiled-in registrar set, one per provider.
func Registrars(integrations repository.IntegrationRepository) []Registrar {
	return []Registrar{
		NewSlackRegistrar(integrations),
		NewMailjetRegistrar(integrations),
		NewWebhookRegistrar(integrations),
		NewQontoRegistrar(integrations),
		NewBilletwebRegistrar(integrations),
		NewOpenPlannerRegistrar(integrations),
	}
}
