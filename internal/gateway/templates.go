package gateway

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

var (
	_ TemplateGateway = (*TemplateRenderer)(nil)
)

type templateKey struct {
	kind     domain.NotificationKind
	language string
}

type messageTemplate struct {
	subject string
	body    string
}

type executor interface {
	Execute(w io.Writer, data any) error
}

// TemplateRenderer renders notifications for one provider, keyed by kind and
// language. Unknown languages fall back to domain.DefaultLanguage.
type TemplateRenderer struct {
	provider domain.Provider
	subjects map[templateKey]*texttemplate.Template
	bodies   map[templateKey]executor
}

// NewSlackTemplates renders mrkdwn text.
func NewSlackTemplates() (*TemplateRenderer, error) {
	return newTemplateRenderer(domain.ProviderSlack, slackTemplates, func(name, text string) (executor, error) {
		return texttemplate.New(name).Option("missingkey=error").Parse(text)
	})
}

// NewMailjetTemplates renders HTML bodies with contextual escaping.
func NewMailjetTemplates() (*TemplateRenderer, error) {
	return newTemplateRenderer(domain.ProviderMailjet, mailjetTemplates, func(name, text string) (executor, error) {
		return htmltemplate.New(name).Option("missingkey=error").Parse(text)
	})
}

func newTemplateRenderer(
	provider domain.Provider,
	sources map[templateKey]messageTemplate,
	parseBody func(name, text string) (executor, error),
) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		provider: provider,
		subjects: make(map[templateKey]*texttemplate.Template, len(sources)),
		bodies:   make(map[templateKey]executor, len(sources)),
	}

	for key, src := range sources {
		name := fmt.Sprintf("%s/%s/%s", strings.ToLower(provider.String()), key.language, key.kind)

		subject, err := texttemplate.New(name + "/subject").Parse(src.subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s subject: %w", name, err)
		}
		body, err := parseBody(name+"/body", src.body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s body: %w", name, err)
		}

		r.subjects[key] = subject
		r.bodies[key] = body
	}

	return r, nil
}

func (r *TemplateRenderer) Provider() domain.Provider {
	return r.provider
}

func (r *TemplateRenderer) Render(_ context.Context, vars domain.NotificationVariables) (domain.RenderedContent, error) {
	if err := vars.Validate(); err != nil {
		return domain.RenderedContent{}, err
	}

	key, ok := r.lookup(vars.Kind, vars.Language)
	if !ok {
		return domain.RenderedContent{}, fmt.Errorf("%w: %s has no %s template", domain.ErrNoTemplateForProvider, r.provider, vars.Kind)
	}

	var subject, body bytes.Buffer
	if err := r.subjects[key].Execute(&subject, vars); err != nil {
		return domain.RenderedContent{}, fmt.Errorf("failed to render subject: %w", err)
	}
	if err := r.bodies[key].Execute(&body, vars); err != nil {
		return domain.RenderedContent{}, fmt.Errorf("failed to render body: %w", err)
	}

	return domain.RenderedContent{
		Subject:    strings.TrimSpace(subject.String()),
		Body:       strings.TrimSpace(body.String()),
		Recipients: vars.Recipients,
	}, nil
}

func (r *TemplateRenderer) lookup(kind domain.NotificationKind, language string) (templateKey, bool) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = domain.DefaultLanguage
	}

	key := templateKey{kind: kind, language: language}
	if _, ok := r.bodies[key]; ok {
		return key, true
	}

	key.language = domain.DefaultLanguage
	_, ok := r.bodies[key]
	return key, ok
}

var slackTemplates = map[templateKey]messageTemplate{
	{domain.NotificationNewPartnership, "en"}: {
		subject: "New partnership for {{.EventName}}",
		body:    "{{.Company}} requested the {{.Pack}} pack.{{if .Link}} <{{.Link}}|Review it>{{end}}",
	},
	{domain.NotificationNewPartnership, "fr"}: {
		subject: "Nouveau partenariat pour {{.EventName}}",
		body:    "{{.Company}} a demandé le pack {{.Pack}}.{{if .Link}} <{{.Link}}|Voir la demande>{{end}}",
	},
	{domain.NotificationPartnershipValidated, "en"}: {
		subject: "Partnership validated for {{.EventName}}",
		body:    "The {{.Pack}} partnership of {{.Company}} has been validated.",
	},
	{domain.NotificationPartnershipValidated, "fr"}: {
		subject: "Partenariat validé pour {{.EventName}}",
		body:    "Le partenariat {{.Pack}} de {{.Company}} a été validé.",
	},
	{domain.NotificationPartnershipDeclined, "en"}: {
		subject: "Partnership declined for {{.EventName}}",
		body:    "The partnership of {{.Company}} has been declined.",
	},
	{domain.NotificationPartnershipDeclined, "fr"}: {
		subject: "Partenariat refusé pour {{.EventName}}",
		body:    "Le partenariat de {{.Company}} a été refusé.",
	},
	{domain.NotificationAgreementSigned, "en"}: {
		subject: "Agreement signed for {{.EventName}}",
		body:    "{{.Company}} signed the partnership agreement.",
	},
	{domain.NotificationAgreementSigned, "fr"}: {
		subject: "Convention signée pour {{.EventName}}",
		body:    "{{.Company}} a signé la convention de partenariat.",
	},
	{domain.NotificationCustom, "en"}: {
		subject: "{{.EventName}}",
		body:    "{{.Message}}",
	},
}

var mailjetTemplates = map[templateKey]messageTemplate{
	{domain.NotificationNewPartnership, "en"}: {
		subject: "[{{.EventName}}] New partnership request from {{.Company}}",
		body:    `<p>{{.Company}} requested the <strong>{{.Pack}}</strong> pack for {{.EventName}}.</p>{{if .Link}}<p><a href="{{.Link}}">Review the request</a></p>{{end}}`,
	},
	{domain.NotificationNewPartnership, "fr"}: {
		subject: "[{{.EventName}}] Nouvelle demande de partenariat de {{.Company}}",
		body:    `<p>{{.Company}} a demandé le pack <strong>{{.Pack}}</strong> pour {{.EventName}}.</p>{{if .Link}}<p><a href="{{.Link}}">Voir la demande</a></p>{{end}}`,
	},
	{domain.NotificationPartnershipValidated, "en"}: {
		subject: "[{{.EventName}}] Your partnership is validated",
		body:    `<p>Hello {{.Company}},</p><p>Your <strong>{{.Pack}}</strong> partnership for {{.EventName}} has been validated.</p>`,
	},
	{domain.NotificationPartnershipValidated, "fr"}: {
		subject: "[{{.EventName}}] Votre partenariat est validé",
		body:    `<p>Bonjour {{.Company}},</p><p>Votre partenariat <strong>{{.Pack}}</strong> pour {{.EventName}} a été validé.</p>`,
	},
	{domain.NotificationPartnershipDeclined, "en"}: {
		subject: "[{{.EventName}}] Your partnership request",
		body:    `<p>Hello {{.Company}},</p><p>We are sorry, your partnership request for {{.EventName}} has been declined.</p>`,
	},
	{domain.NotificationPartnershipDeclined, "fr"}: {
		subject: "[{{.EventName}}] Votre demande de partenariat",
		body:    `<p>Bonjour {{.Company}},</p><p>Nous sommes désolés, votre demande de partenariat pour {{.EventName}} a été refusée.</p>`,
	},
	{domain.NotificationAgreementSigned, "en"}: {
		subject: "[{{.EventName}}] Agreement signed",
		body:    `<p>{{.Company}} signed the partnership agreement for {{.EventName}}.</p>`,
	},
	{domain.NotificationAgreementSigned, "fr"}: {
		subject: "[{{.EventName}}] Convention signée",
		body:    `<p>{{.Company}} a signé la convention de partenariat pour {{.EventName}}.</p>`,
	},
	{domain.NotificationCustom, "en"}: {
		subject: "[{{.EventName}}] Message from the organizers",
		body:    `<p>{{.Message}}</p>`,
	},
	{domain.NotificationCustom, "fr"}: {
		subject: "[{{.EventName}}] Message des organisateurs",
		body:    `<p>{{.Message}}</p>`,
	},
}
