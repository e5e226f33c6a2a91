package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/observability"
)

type NotificationService interface {
	SendMessage(ctx context.Context, eventID string, vars domain.NotificationVariables) (domain.DeliveryResult, error)
}

type WebhookService interface {
	Deliver(ctx context.Context, eventID string, event domain.WebhookEvent) (domain.DeliveryResult, error)
}

type BillingService interface {
	CreateInvoice(ctx context.Context, eventID string, partnershipID string) (string, error)
	CreateQuote(ctx context.Context, eventID string, partnershipID string) (string, error)
}

type TicketingService interface {
	CreateTickets(ctx context.Context, eventID string, partnershipID string, tickets []domain.TicketData) (*domain.TicketOrder, error)
	UpdateTicket(ctx context.Context, eventID string, ticketID string, data domain.TicketData) (*domain.Ticket, error)
}

type AgendaService interface {
	RequestSync(ctx context.Context, eventID string, correlationID string) error
}

// DispatchServices groups the usage services behind the dispatch routes.
type DispatchServices struct {
	Notifications NotificationService
	Webhooks      WebhookService
	Billing       BillingService
	Ticketing     TicketingService
	Agenda        AgendaService
}

func (s DispatchServices) validate() error {
	switch {
	case s.Notifications == nil:
		return fmt.Errorf("notification service is required")
	case s.Webhooks == nil:
		return fmt.Errorf("webhook service is required")
	case s.Billing == nil:
		return fmt.Errorf("billing service is required")
	case s.Ticketing == nil:
		return fmt.Errorf("ticketing service is required")
	case s.Agenda == nil:
		return fmt.Errorf("agenda service is required")
	}
	return nil
}

type DispatchHandler struct {
	services DispatchServices
}

func NewDispatchHandler(services DispatchServices) (*DispatchHandler, error) {
	if err := services.validate(); err != nil {
		return nil, err
	}
	return &DispatchHandler{services: services}, nil
}

func RegisterDispatchRoutes(router fiber.Router, services DispatchServices) error {
	h, err := NewDispatchHandler(services)
	if err != nil {
		return err
	}

	events := router.Group("/v1/events/:eventId")
	events.Post("/notifications", h.SendNotification)
	events.Post("/webhooks", h.DeliverWebhook)
	events.Post("/partnerships/:partnershipId/invoice", h.CreateInvoice)
	events.Post("/partnerships/:partnershipId/quote", h.CreateQuote)
	events.Post("/partnerships/:partnershipId/tickets", h.CreateTickets)
	events.Put("/tickets/:ticketId", h.UpdateTicket)
	events.Post("/agenda/sync", h.RequestAgendaSync)

	return nil
}

type notificationRequest struct {
	Kind       string   `json:"kind"`
	Language   string   `json:"language"`
	EventName  string   `json:"eventName"`
	Company    string   `json:"company"`
	Pack       string   `json:"pack"`
	Link       string   `json:"link"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
}

type webhookRequest struct {
	Type          string         `json:"type"`
	PartnershipID string         `json:"partnershipId"`
	OccurredAt    *time.Time     `json:"occurredAt,omitempty"`
	Data          map[string]any `json:"data"`
}

type ticketRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type createTicketsRequest struct {
	Tickets []ticketRequest `json:"tickets"`
}

type recipientResponse struct {
	IntegrationID string `json:"integrationId"`
	Provider      string `json:"provider"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

type deliveryResponse struct {
	Status     string              `json:"status"`
	Recipients []recipientResponse `json:"recipients"`
}

type documentResponse struct {
	URL string `json:"url"`
}

type ticketResponse struct {
	ExternalID string `json:"externalId"`
	URL        string `json:"url,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

type ticketOrderResponse struct {
	ExternalOrderID string           `json:"externalOrderId"`
	Tickets         []ticketResponse `json:"tickets"`
}

type agendaSyncResponse struct {
	Status        string `json:"status"`
	CorrelationID string `json:"correlationId,omitempty"`
}

func (h *DispatchHandler) SendNotification(c *fiber.Ctx) error {
	var req notificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.services.Notifications.SendMessage(c.UserContext(), c.Params("eventId"), domain.NotificationVariables{
		Kind:       domain.NotificationKind(strings.ToLower(strings.TrimSpace(req.Kind))),
		Language:   req.Language,
		EventName:  req.EventName,
		Company:    req.Company,
		Pack:       req.Pack,
		Link:       req.Link,
		Message:    req.Message,
		Recipients: req.Recipients,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toDeliveryResponse(result))
}

func (h *DispatchHandler) DeliverWebhook(c *fiber.Ctx) error {
	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	event := domain.WebhookEvent{
		Type:          strings.TrimSpace(req.Type),
		PartnershipID: req.PartnershipID,
		Data:          req.Data,
	}
	if req.OccurredAt != nil {
		event.OccurredAt = req.OccurredAt.UTC()
	}

	result, err := h.services.Webhooks.Deliver(c.UserContext(), c.Params("eventId"), event)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toDeliveryResponse(result))
}

func (h *DispatchHandler) CreateInvoice(c *fiber.Ctx) error {
	url, err := h.services.Billing.CreateInvoice(c.UserContext(), c.Params("eventId"), c.Params("partnershipId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentResponse{URL: url})
}

func (h *DispatchHandler) CreateQuote(c *fiber.Ctx) error {
	url, err := h.services.Billing.CreateQuote(c.UserContext(), c.Params("eventId"), c.Params("partnershipId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentResponse{URL: url})
}

func (h *DispatchHandler) CreateTickets(c *fiber.Ctx) error {
	var req createTicketsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	tickets := make([]domain.TicketData, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, toTicketData(t))
	}

	order, err := h.services.Ticketing.CreateTickets(c.UserContext(), c.Params("eventId"), c.Params("partnershipId"), tickets)
	if err != nil {
		return toHTTPError(err)
	}
	if order == nil {
		order = &domain.TicketOrder{}
	}

	response := ticketOrderResponse{
		ExternalOrderID: order.ExternalOrderID,
		Tickets:         make([]ticketResponse, 0, len(order.Tickets)),
	}
	for i := range order.Tickets {
		response.Tickets = append(response.Tickets, toTicketResponse(&order.Tickets[i]))
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *DispatchHandler) UpdateTicket(c *fiber.Ctx) error {
	var req ticketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ticket, err := h.services.Ticketing.UpdateTicket(c.UserContext(), c.Params("eventId"), c.Params("ticketId"), toTicketData(req))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(toTicketResponse(ticket))
}

func (h *DispatchHandler) RequestAgendaSync(c *fiber.Ctx) error {
	correlationID, _ := observability.CorrelationIDFromContext(c.UserContext())

	if err := h.services.Agenda.RequestSync(c.UserContext(), c.Params("eventId"), correlationID); err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusAccepted).JSON(agendaSyncResponse{Status: "queued", CorrelationID: correlationID})
}

func toTicketData(t ticketRequest) domain.TicketData {
	return domain.TicketData{
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
	}
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	if t == nil {
		return ticketResponse{}
	}
	return ticketResponse{
		ExternalID: t.ExternalID,
		URL:        t.URL,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
	}
}

func toDeliveryResponse(result domain.DeliveryResult) deliveryResponse {
	recipients := make([]recipientResponse, 0, len(result.Recipients))
	for _, r := range result.Recipients {
		recipients = append(recipients, recipientResponse{
			IntegrationID: r.Recipient,
			Provider:      r.Provider.String(),
			Status:        r.Status.String(),
			Error:         r.Error,
		})
	}
	return deliveryResponse{
		Status:     result.Status.String(),
		Recipients: recipients,
	}
}
