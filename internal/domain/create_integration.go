package domain

// CreateIntegration is the untrusted registration payload. The set of
// variants is closed: only types in this package implement it.
type CreateIntegration interface {
	// Kind is the explicit discriminator of the variant.
	Kind() Provider
	isCreateIntegration()
}

type CreateSlackIntegration struct {
	Token   string `json:"token" validate:"required"`
	Channel string `json:"channel" validate:"required"`
}

type CreateMailjetIntegration struct {
	APIKey    string `json:"apiKey" validate:"required"`
	Secret    string `json:"secret" validate:"required"`
	FromEmail string `json:"fromEmail" validate:"required,email"`
	FromName  string `json:"fromName" validate:"required"`
}

type CreateWebhookIntegration struct {
	URL    string   `json:"url" validate:"required,url"`
	Secret string   `json:"secret" validate:"required,min=16"`
	Events []string `json:"events" validate:"omitempty,dive,required"`
}

type CreateQontoIntegration struct {
	APIKey       string `json:"apiKey" validate:"required"`
	Secret       string `json:"secret" validate:"required"`
	SandboxToken string `json:"sandboxToken"`
}

type CreateBilletwebIntegration struct {
	Basic   string `json:"basic" validate:"required"`
	EventID string `json:"eventId" validate:"required"`
	RateID  string `json:"rateId" validate:"required"`
}

type CreateOpenPlannerIntegration struct {
	EventID string `json:"eventId" validate:"required"`
	APIKey  string `json:"apiKey" validate:"required"`
}

func (CreateSlackIntegration) Kind() Provider       { return ProviderSlack }
func (CreateMailjetIntegration) Kind() Provider     { return ProviderMailjet }
func (CreateWebhookIntegration) Kind() Provider     { return ProviderWebhook }
func (CreateQontoIntegration) Kind() Provider       { return ProviderQonto }
func (CreateBilletwebIntegration) Kind() Provider   { return ProviderBilletweb }
func (CreateOpenPlannerIntegration) Kind() Provider { return ProviderOpenPlanner }

func (CreateSlackIntegration) isCreateIntegration()       {}
func (CreateMailjetIntegration) isCreateIntegration()     {}
func (CreateWebhookIntegration) isCreateIntegration()     {}
func (CreateQontoIntegration) isCreateIntegration()       {}
func (CreateBilletwebIntegration) isCreateIntegration()   {}
func (CreateOpenPlannerIntegration) isCreateIntegration() {}
