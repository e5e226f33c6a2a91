package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const (
	SignatureHeader = "X-Signature"
	EventTypeHeader = "X-Event-Type"

	pingEventType = "ping"
)

var (
	_ WebhookGateway = (*HTTPWebhookGateway)(nil)
	_ StatusGateway  = (*HTTPWebhookGateway)(nil)
)

type webhookPayload struct {
	Type          string         `json:"type"`
	EventID       string         `json:"eventId"`
	PartnershipID string         `json:"partnershipId,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Data          map[string]any `json:"data,omitempty"`
}

// HTTPWebhookGateway posts signed JSON events to the URL stored per integration.
type HTTPWebhookGateway struct {
	configs repository.ConfigReader
	client  *resty.Client
	now     func() time.Time
}

func NewHTTPWebhookGateway(configs repository.ConfigReader, client *resty.Client) (*HTTPWebhookGateway, error) {
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	return &HTTPWebhookGateway{configs: configs, client: client, now: time.Now}, nil
}

func (g *HTTPWebhookGateway) Provider() domain.Provider {
	return domain.ProviderWebhook
}

func (g *HTTPWebhookGateway) Deliver(ctx context.Context, integrationID string, event domain.WebhookEvent) error {
	cfg, err := repository.LoadConfig[domain.WebhookConfig](ctx, g.configs, integrationID)
	if err != nil {
		return err
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = g.now()
	}

	return g.post(ctx, cfg, webhookPayload{
		Type:          event.Type,
		EventID:       event.EventID,
		PartnershipID: event.PartnershipID,
		OccurredAt:    occurredAt.UTC(),
		Data:          event.Data,
	})
}

func (g *HTTPWebhookGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.WebhookConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	return statusFromError(g.post(ctx, cfg, webhookPayload{
		Type:       pingEventType,
		OccurredAt: g.now().UTC(),
	}))
}

func (g *HTTPWebhookGateway) post(ctx context.Context, cfg domain.WebhookConfig, payload webhookPayload) error {
	if cfg.Secret == "" {
		return fmt.Errorf("%w: webhook secret is empty", domain.ErrProviderConfigMalformed)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(EventTypeHeader, payload.Type).
		SetHeader(SignatureHeader, Sign(cfg.Secret, body)).
		SetBody(body)

	response, err := req.Post(cfg.URL)
	return checkResponse(domain.ProviderWebhook, response, err)
}

// Sign returns the HMAC-SHA256 signature receivers use to authenticate a body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
