// Package gateway holds one capability contract per usage and the concrete
// provider adapters implementing them.
package gateway

import (
	"context"

	"github.com/kursadbilgin/partnership-gateway/internal/domain"
)

// Gateway is bound to exactly one provider.
type Gateway interface {
	Provider() domain.Provider
}

type BillingGateway interface {
	Gateway
	CreateInvoice(ctx context.Context, integrationID string, eventID string, partnershipID string) (string, error)
	CreateQuote(ctx context.Context, integrationID string, eventID string, partnershipID string) (string, error)
}

type TicketingGateway interface {
	Gateway
	CreateTickets(ctx context.Context, integrationID string, eventID string, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error)
	UpdateTicket(ctx context.Context, integrationID string, ticketID string, data domain.TicketData) (*domain.Ticket, error)
}

// NotificationGateway delivers rendered content. A nil error means the
// provider accepted the message.
type NotificationGateway interface {
	Gateway
	Send(ctx context.Context, integrationID string, content domain.RenderedContent) error
}

// TemplateGateway renders notification variables into provider-ready content.
type TemplateGateway interface {
	Gateway
	Render(ctx context.Context, vars domain.NotificationVariables) (domain.RenderedContent, error)
}

type WebhookGateway interface {
	Gateway
	Deliver(ctx context.Context, integrationID string, event domain.WebhookEvent) error
}

// AgendaGateway pulls the remote schedule and upserts it locally, keyed by
// the provider's external ids.
type AgendaGateway interface {
	Gateway
	FetchAndStore(ctx context.Context, integrationID string, eventID string) (domain.AgendaSyncResult, error)
}

// StatusGateway checks that the stored credentials are accepted by the provider.
type StatusGateway interface {
	Gateway
	Status(ctx context.Context, integrationID string) (bool, error)
}
