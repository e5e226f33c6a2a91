package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/repository"
)

const DefaultBilletwebBaseURL = "https://www.billetweb.fr/api"

var (
	_ TicketingGateway = (*BilletwebGateway)(nil)
	_ StatusGateway    = (*BilletwebGateway)(nil)
)

type billetwebProduct struct {
	ID        string `json:"id,omitempty"`
	Ticket    string `json:"ticket,omitempty"`
	Name      string `json:"name"`
	FirstName string `json:"firstname"`
	Email     string `json:"email,omitempty"`
}

type billetwebOrder struct {
	RequestID string             `json:"request_id"`
	Name      string             `json:"name"`
	FirstName string             `json:"firstname"`
	Email     string             `json:"email,omitempty"`
	Products  []billetwebProduct `json:"products"`
}

type billetwebEnvelope[T any] struct {
	Data []T `json:"data"`
}

type billetwebProductResult struct {
	ID       string `json:"id"`
	Download string `json:"product_download"`
}

type billetwebOrderResult struct {
	ID       string                   `json:"id"`
	Products []billetwebProductResult `json:"products"`
}

// BilletwebGateway books attendee tickets on a configured rate.
type BilletwebGateway struct {
	configs repository.ConfigReader
	client  *resty.Client
	baseURL string
}

func NewBilletwebGateway(configs repository.ConfigReader, client *resty.Client, baseURL string) (*BilletwebGateway, error) {
	client, err := prepareClient(client)
	if err != nil {
		return nil, err
	}
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("billetweb: %w", err)
	}
	return &BilletwebGateway{configs: configs, client: client, baseURL: base}, nil
}

func (g *BilletwebGateway) Provider() domain.Provider {
	return domain.ProviderBilletweb
}

// CreateTickets books one order for the partnership holding one product per ticket.
// The first holder is the order contact.
func (g *BilletwebGateway) CreateTickets(ctx context.Context, integrationID string, eventID string, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: at least one ticket is required", domain.ErrValidation)
	}
	for _, ticket := range tickets {
		if err := ticket.Validate(); err != nil {
			return nil, err
		}
	}

	cfg, err := repository.LoadConfig[domain.BilletwebConfig](ctx, g.configs, integrationID)
	if err != nil {
		return nil, err
	}

	products := make([]billetwebProduct, 0, len(tickets))
	for _, ticket := range tickets {
		products = append(products, billetwebProduct{
			Ticket:    cfg.RateID,
			Name:      ticket.LastName,
			FirstName: ticket.FirstName,
			Email:     ticket.Email,
		})
	}

	var result []billetwebOrderResult
	response, err := g.request(ctx, cfg).
		SetHeader("Content-Type", "application/json").
		SetBody(billetwebEnvelope[billetwebOrder]{Data: []billetwebOrder{{
			RequestID: eventID + ":" + partnershipID,
			Name:      tickets[0].LastName,
			FirstName: tickets[0].FirstName,
			Email:     tickets[0].Email,
			Products:  products,
		}}}).
		SetResult(&result).
		Post(g.eventURL(cfg, "/attendees"))
	if err := checkResponse(domain.ProviderBilletweb, response, err); err != nil {
		return nil, err
	}

	if len(result) == 0 || len(result[0].Products) != len(tickets) {
		return nil, &ProviderError{
			Provider: domain.ProviderBilletweb,
			Message:  fmt.Sprintf("expected %d booked tickets in response", len(tickets)),
		}
	}

	order := &domain.TicketOrder{
		ExternalOrderID: result[0].ID,
		Tickets:         make([]domain.Ticket, 0, len(tickets)),
	}
	for i, product := range result[0].Products {
		order.Tickets = append(order.Tickets, domain.Ticket{
			ExternalID: product.ID,
			URL:        product.Download,
			FirstName:  tickets[i].FirstName,
			LastName:   tickets[i].LastName,
		})
	}
	return order, nil
}

func (g *BilletwebGateway) UpdateTicket(ctx context.Context, integrationID string, ticketID string, data domain.TicketData) (*domain.Ticket, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("%w: ticket id is required", domain.ErrValidation)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	cfg, err := repository.LoadConfig[domain.BilletwebConfig](ctx, g.configs, integrationID)
	if err != nil {
		return nil, err
	}

	var result []billetwebProductResult
	response, err := g.request(ctx, cfg).
		SetHeader("Content-Type", "application/json").
		SetBody(billetwebEnvelope[billetwebProduct]{Data: []billetwebProduct{{
			ID:        ticketID,
			Name:      data.LastName,
			FirstName: data.FirstName,
			Email:     data.Email,
		}}}).
		SetResult(&result).
		Post(g.eventURL(cfg, "/update_product"))
	if err := checkResponse(domain.ProviderBilletweb, response, err); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{ExternalID: ticketID, FirstName: data.FirstName, LastName: data.LastName}
	if len(result) > 0 {
		ticket.URL = result[0].Download
	}
	return ticket, nil
}

func (g *BilletwebGateway) Status(ctx context.Context, integrationID string) (bool, error) {
	cfg, err := repository.LoadConfig[domain.BilletwebConfig](ctx, g.configs, integrationID)
	if err != nil {
		return false, err
	}

	response, err := g.request(ctx, cfg).Get(g.eventURL(cfg, ""))
	return statusFromError(checkResponse(domain.ProviderBilletweb, response, err))
}

func (g *BilletwebGateway) request(ctx context.Context, cfg domain.BilletwebConfig) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+cfg.Basic)
}

func (g *BilletwebGateway) eventURL(cfg domain.BilletwebConfig, suffix string) string {
	return g.baseURL + "/event/" + url.PathEscape(cfg.EventID) + suffix
}
