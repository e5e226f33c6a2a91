package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const (
	DefaultQontoBaseURL = "https://thirdparty.qonto.com"

	qontoStagingTokenHeader = "X-Qonto-Staging-Token"
)

var (
	_ BillingGateway = (*QontoGateway)(nil)
	_ StatusGateway  = (*QontoGateway)(nil)
)

type qontoDocumentRequest struct {
	ExternalReference string `json:"external_reference"`
	EventID           string `json:"event_id"`
	PartnershipID     string `json:"partnership_id"`
}

type qontoInvoiceResponse struct {
	ClientInvoice struct {
		ID         string `json:"id"`
		InvoiceURL string `json:"invoice_url"`
	} `json:"client_invoice"`
}

type qontoQuoteResponse struct {
	Quote struct {
		ID       string `json:"id"`
		QuoteURL string `json:"quote_url"`
	} `json:"quote"`
}

// QontoGateway issues invoices and quotes for a partnership.
type QontoGateway struct {
	configs repository.ConfigReader
	client  *resty.Client
	baseURL string
}

func NewQontoGateway(configs repository.ConfigReader, client *resty.Client, baseURL string) (*QontoGateway, error) {
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("qonto: %w", err)
	}
	return &QontoGateway{configs: configs, client: client, baseURL: base}, nil
}

func (g *QontoGateway) Provider() domain.Provider {
	return domain.ProviderQonto
}

func (g *QontoGateway) CreateInvoice(ctx context.Context, integrationID string, eventID string, partnershipID string) (string, error) {
	var result qontoInvoiceResponse
	if err := g.createDocument(ctx, integrationID, "/v2/client_invoices", eventID, partnershipID, &result); err != nil {
		return "", err
	}
	return documentURL(result.ClientInvoice.InvoiceURL, "invoice_url")
}

func (g *QontoGateway) CreateQuote(ctx context.Context, integrationID string, eventID string, partnershipID string) (string, error) {
	var result qontoQuoteResponse
	if err := g.createDocument(ctx, integrationID, "/v2/quotes", eventID, partnershipID, &result); err != nil {
		return "", err
	}
	return documentURL(result.Quote.QuoteURL, "quote_url")
}

func (g *QontoGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.QontoConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	response, err := g.request(ctx, cfg).Get(g.baseURL + "/v2/organization")
	return statusFromError(checkResponse(domain.ProviderQonto, response, err))
}

func (g *QontoGateway) createDocument(ctx context.Context, integrationID string, path string, eventID string, partnershipID string, result any) error {
	cfg, err := repository.LoadConfig[domain.QontoConfig](ctx, g.configs, integrationID)
	if err != nil {
		return err
	}

	response, err := g.request(ctx, cfg).
		SetHeader("Content-Type", "application/json").
		SetBody(qontoDocumentRequest{
			ExternalReference: eventID + ":" + partnershipID,
			EventID:           eventID,
			PartnershipID:     partnershipID,
		}).
		SetResult(result).
		Post(g.baseURL + path)
	return checkResponse(domain.ProviderQonto, response, err)
}

func (g *QontoGateway) request(ctx context.Context, cfg domain.QontoConfig) *resty.Request {
	req := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", cfg.APIKey+":"+cfg.Secret)
	if cfg.SandboxToken != "" {
		req.SetHeader(qontoStagingTokenHeader, cfg.SandboxToken)
	}
	return req
}

func documentURL(raw string, field string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ProviderError{
			Provider: domain.ProviderQonto,
			Message:  fmt.Sprintf("response is missing %s", field),
		}
	}
	return raw, nil
}
