package gateway

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const DefaultMailjetBaseURL = "https://api.mailjet.com"

var (
	_ NotificationGateway = (*MailjetGateway)(nil)
	_ StatusGateway       = (*MailjetGateway)(nil)
)

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	HTMLPart string           `json:"HTMLPart"`
}

type mailjetSendRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

// MailjetGateway sends transactional e-mails through the Send API v3.1.
type MailjetGateway struct {
	configs repository.ConfigReader
	client  *resty.Client
	baseURL string
}

func NewMailjetGateway(configs repository.ConfigReader, client *resty.Client, baseURL string) (*MailjetGateway, error) {
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mailjet: %w", err)
	}
	return &MailjetGateway{configs: configs, client: client, baseURL: base}, nil
}

func (g *MailjetGateway) Provider() domain.Provider {
	return domain.ProviderMailjet
}

func (g *MailjetGateway) Send(ctx context.Context, integrationID string, content domain.RenderedContent) error {
	if len(content.Recipients) == 0 {
		return fmt.Errorf("%w: mailjet requires at least one recipient address", domain.ErrValidation)
	}

	cfg, err := repository.LoadConfig[domain.MailjetConfig](ctx, g.configs, integrationID)
	if err != nil {
		return err
	}

	to := make([]mailjetAddress, 0, len(content.Recipients))
	for _, email := range content.Recipients {
		to = append(to, mailjetAddress{Email: email})
	}

	response, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(cfg.APIKey, cfg.Secret).
		SetHeader("Content-Type", "application/json").
		SetBody(mailjetSendRequest{
			Messages: []mailjetMessage{{
				From:     mailjetAddress{Email: cfg.FromEmail, Name: cfg.FromName},
				To:       to,
				Subject:  content.Subject,
				HTMLPart: content.Body,
			}},
		}).
		Post(g.baseURL + "/v3.1/send")
	return checkResponse(domain.ProviderMailjet, response, err)
}

func (g *MailjetGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.MailjetConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	response, err := g.client.R().
		SetContext(ctx).
		SetBasicAuth(cfg.APIKey, cfg.Secret).
		Get(g.baseURL + "/v3/REST/apikey")
	return statusFromError(checkResponse(domain.ProviderMailjet, response, err))
}
