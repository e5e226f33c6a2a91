package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/partnership-gateway/internal/domain"
	"github.com/kursadbilgin/partnership-gateway/internal/service"
)

type IntegrationService interface {
	RegisterRaw(ctx context.Context, eventID string, providerTag string, usageTag string, raw []byte) (string, error)
	Unregister(ctx context.Context, integrationID string) error
	List(ctx context.Context, eventID string) ([]domain.Integration, error)
}

type StatusService interface {
	Status(ctx context.Context, integrationID string) (service.IntegrationStatus, error)
	EventStatuses(ctx context.Context, eventID string) ([]service.IntegrationStatus, error)
}

type IntegrationHandler struct {
	integrations IntegrationService
	statuses     StatusService
}

func NewIntegrationHandler(integrations IntegrationService, statuses StatusService) (*IntegrationHandler, error) {
	if integrations == nil {
		return nil, fmt.Errorf("integration service is required")
	}
	if statuses == nil {
		return nil, fmt.Errorf("status service is required")
	}
	return &IntegrationHandler{integrations: integrations, statuses: statuses}, nil
}

func RegisterIntegrationRoutes(router fiber.Router, integrations IntegrationService, statuses StatusService) error {
	h, err := NewIntegrationHandler(integrations, statuses)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/events/:eventId/integrations/:provider/:usage", h.Register)
	v1.Get("/events/:eventId/integrations", h.List)
	v1.Get("/events/:eventId/integrations/status", h.EventStatuses)
	v1.Delete("/integrations/:integrationId", h.Unregister)
	v1.Get("/integrations/:integrationId/status", h.Status)

	return nil
}

type registerResponse struct {
	ID string `json:"id"`
}

type integrationResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Provider  string    `json:"provider"`
	Usage     string    `json:"usage"`
	CreatedAt time.Time `json:"createdAt"`
}

type listIntegrationsResponse struct {
	Data []integrationResponse `json:"data"`
}

type statusResponse struct {
	IntegrationID string `json:"integrationId"`
	Provider      string `json:"provider"`
	Usage         string `json:"usage"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
}

type eventStatusesResponse struct {
	Data []statusResponse `json:"data"`
}

// Register decodes the body with the deserializer of the :provider tag, so
// the payload shape is the provider's CreateIntegration shape.
func (h *IntegrationHandler) Register(c *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	raw := append([]byte(nil), c.Body()...)

	id, err := h.integrations.RegisterRaw(c.UserContext(), c.Params("eventId"), c.Params("provider"), c.Params("usage"), raw)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(registerResponse{ID: id})
}

func (h *IntegrationHandler) List(c *fiber.Ctx) error {
	integrations, err := h.integrations.List(c.UserContext(), c.Params("eventId"))
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]integrationResponse, 0, len(integrations))
	for _, i := range integrations {
		data = append(data, toIntegrationResponse(i))
	}
	return c.Status(fiber.StatusOK).JSON(listIntegrationsResponse{Data: data})
}

func (h *IntegrationHandler) Unregister(c *fiber.Ctx) error {
	if err := h.integrations.Unregister(c.UserContext(), c.Params("integrationId")); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *IntegrationHandler) Status(c *fiber.Ctx) error {
	status, err := h.statuses.Status(c.UserContext(), c.Params("integrationId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(fiber.StatusOK).JSON(toStatusResponse(status))
}

func (h *IntegrationHandler) EventStatuses(c *fiber.Ctx) error {
	statuses, err := h.statuses.EventStatuses(c.UserContext(), c.Params("eventId"))
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]statusResponse, 0, len(statuses))
	for _, s := range statuses {
		data = append(data, toStatusResponse(s))
	}
	return c.Status(fiber.StatusOK).JSON(eventStatusesResponse{Data: data})
}

func toIntegrationResponse(i domain.Integration) integrationResponse {
	return integrationResponse{
		ID:        i.ID,
		EventID:   i.EventID,
		Provider:  i.Provider.String(),
		Usage:     i.Usage.String(),
		CreatedAt: i.CreatedAt,
	}
}

func toStatusResponse(s service.IntegrationStatus) statusResponse {
	status := "down"
	switch {
	case s.Error != "":
		status = "unknown"
	case s.Live:
		status = "live"
	}

	return statusResponse{
		IntegrationID: s.Integration.ID,
		Provider:      s.Integration.Provider.String(),
		Usage:         s.Integration.Usage.String(),
		Status:        status,
		Error:         s.Error,
	}
}
